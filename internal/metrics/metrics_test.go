package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/osl/internal/metrics"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	c := metrics.New()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnDispatch(ctx, &domain.DispatchEvent{Action: "create_order"})
	hooks.OnOutcome(ctx, &domain.OutcomeEvent{Action: "create_order", Dispatched: true, Duration: 20 * time.Millisecond})
	hooks.OnOutcome(ctx, &domain.OutcomeEvent{Action: "allocate", Kind: domain.KindMissingTenant})

	n, err := testutil.GatherAndCount(c.Registry(), "osl_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(c.Registry(), "osl_action_outcomes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per action/result pair")

	n, err = testutil.GatherAndCount(c.Registry(), "osl_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "undispatched outcomes are not timed")
}

func TestHandler(t *testing.T) {
	c := metrics.New()
	c.Hooks().OnDispatch(context.Background(), &domain.DispatchEvent{Action: "refresh_current_stock"})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `osl_requests_total{action="refresh_current_stock"} 1`)
}
