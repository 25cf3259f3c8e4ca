package osl_test

import (
	"context"
	"testing"

	"github.com/aretw0/osl"
	"github.com/aretw0/osl/internal/testutils"
	"github.com/aretw0/osl/pkg/adapters/file"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenantA = "11111111-1111-1111-1111-111111111111"

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := osl.New("localhost:8000")
	assert.Error(t, err)
}

func TestConsole_RestoreUsesDefaultTenant(t *testing.T) {
	console, err := osl.New("http://localhost:8000", osl.WithDefaultTenant(" "+tenantA+" "))
	require.NoError(t, err)

	id := console.Restore(context.Background())
	assert.Equal(t, tenantA, id.TenantID)
	assert.Equal(t, "Tenant set: "+tenantA, console.Status().Get(domain.IndicatorTenant).Message)
	assert.Equal(t, "http://localhost:8000", console.BaseURL())
}

func TestConsole_SessionSurvivesRestart(t *testing.T) {
	backend := testutils.NewBackend(t)
	backend.APIToken = "secret"
	ctx := context.Background()
	path := t.TempDir() + "/state.json"

	first, err := osl.New(backend.URL, osl.WithStore(file.New(path)))
	require.NoError(t, err)
	first.Restore(ctx)
	first.SetToken(ctx, "secret")

	out, err := first.Invoke(ctx, "create_tenant", map[string]string{"name": "Acme"})
	require.NoError(t, err)
	require.True(t, out.OK(), "%v", out.Err)

	out, err = first.Invoke(ctx, "create_customer", map[string]string{"code": "C1", "name": "Ana"})
	require.NoError(t, err)
	require.True(t, out.OK(), "%v", out.Err)

	// A second process over the same state file picks up where the first stopped.
	second, err := osl.New(backend.URL, osl.WithStore(file.New(path)))
	require.NoError(t, err)
	id := second.Restore(ctx)
	assert.Equal(t, first.Identity(), id)
	assert.Equal(t, first.Fields().Get(workflow.FieldOrderCustomerID), second.Fields().Get(workflow.FieldOrderCustomerID))
	assert.Equal(t, "API token loaded", second.Status().Get(domain.IndicatorAPI).Message)

	out, err = second.Invoke(ctx, "create_order", map[string]string{"product_id": "p1", "qty": "3"})
	require.NoError(t, err)
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, id.TenantID, backend.Last(t).Header.Get("X-Tenant-Id"))
}

func TestConsole_Hooks(t *testing.T) {
	backend := testutils.NewBackend(t)
	var dispatched, resolved int
	console, err := osl.New(backend.URL, osl.WithHooks(domain.Hooks{
		OnDispatch: func(context.Context, *domain.DispatchEvent) { dispatched++ },
		OnOutcome:  func(context.Context, *domain.OutcomeEvent) { resolved++ },
	}))
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = console.Invoke(ctx, "refresh_current_stock", nil)
	_, _ = console.SetTenant(ctx, tenantA)
	_, _ = console.Invoke(ctx, "refresh_current_stock", nil)

	assert.Equal(t, 1, dispatched)
	assert.Equal(t, 2, resolved)
	assert.Len(t, console.Actions(), 15)
}

func TestConsole_MaxBodySize(t *testing.T) {
	backend := testutils.NewBackend(t)
	ctx := context.Background()

	capped, err := osl.New(backend.URL, osl.WithMaxBodySize(4))
	require.NoError(t, err)
	out, err := capped.Invoke(ctx, "health", nil)
	require.NoError(t, err)
	require.True(t, out.OK())
	assert.Equal(t, map[string]any{}, out.Payload, "a truncated body is treated as empty")

	console, err := osl.New(backend.URL)
	require.NoError(t, err)
	out, err = console.Invoke(ctx, "health", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, out.Payload)
}
