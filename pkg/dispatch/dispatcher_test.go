package dispatch_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/aretw0/osl/internal/testutils"
	"github.com/aretw0/osl/pkg/dispatch"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenantA = "11111111-1111-1111-1111-111111111111"

type staticCreds domain.Identity

func (c staticCreds) Identity() domain.Identity { return domain.Identity(c) }

var (
	createProduct = domain.ActionDescriptor{Name: "create_product", Method: http.MethodPost, Path: "/api/products", RequireTenant: true, RequireToken: true}
	createOrder   = domain.ActionDescriptor{Name: "create_order", Method: http.MethodPost, Path: "/api/orders", RequireTenant: true, AttachToken: true}
	allocate      = domain.ActionDescriptor{Name: "allocate", Method: http.MethodPost, Path: "/api/orders/{id}/allocate", RequireTenant: true}
	createTenant  = domain.ActionDescriptor{Name: "create_tenant", Method: http.MethodPost, Path: "/api/tenants", RequireToken: true}
	search        = domain.ActionDescriptor{Name: "search_products", Method: http.MethodGet, Path: "/api/products", RequireTenant: true, AttachToken: true}
)

func newDispatcher(t *testing.T, baseURL string, id domain.Identity, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	d, err := dispatch.New(baseURL, staticCreds(id), opts...)
	require.NoError(t, err)
	return d
}

func TestDispatch_MissingTenantMakesNoCall(t *testing.T) {
	backend := testutils.NewBackend(t)
	d := newDispatcher(t, backend.URL, domain.Identity{APIToken: "tok"})

	for _, desc := range []domain.ActionDescriptor{createProduct, createOrder, allocate, search} {
		_, err := d.Dispatch(context.Background(), desc, dispatch.Request{PathParams: map[string]string{"id": "o1"}})

		var f *domain.Failure
		require.True(t, errors.As(err, &f), desc.Name)
		assert.Equal(t, domain.KindMissingTenant, f.Kind)
		assert.Equal(t, domain.MsgTenantRequired, f.Message)
	}
	assert.Zero(t, backend.Count())
}

func TestDispatch_MissingTokenMakesNoCall(t *testing.T) {
	backend := testutils.NewBackend(t)
	d := newDispatcher(t, backend.URL, domain.Identity{TenantID: tenantA})

	for _, desc := range []domain.ActionDescriptor{createProduct, createTenant} {
		_, err := d.Dispatch(context.Background(), desc, dispatch.Request{Body: map[string]any{}})

		var f *domain.Failure
		require.True(t, errors.As(err, &f), desc.Name)
		assert.Equal(t, domain.KindMissingToken, f.Kind)
		assert.Equal(t, domain.MsgTokenRequired, f.Message)
	}
	assert.Zero(t, backend.Count())
}

func TestDispatch_TenantCheckedBeforeToken(t *testing.T) {
	f := dispatch.Preflight(createProduct, domain.Identity{})
	require.NotNil(t, f)
	assert.Equal(t, domain.KindMissingTenant, f.Kind)
}

func TestHeaders(t *testing.T) {
	full := domain.Identity{TenantID: tenantA, APIToken: "tok"}

	tests := []struct {
		name       string
		desc       domain.ActionDescriptor
		id         domain.Identity
		wantTenant string
		wantToken  string
	}{
		{"required token attached", createProduct, full, tenantA, "tok"},
		{"optional token attached when present", createOrder, full, tenantA, "tok"},
		{"optional token absent", createOrder, domain.Identity{TenantID: tenantA}, tenantA, ""},
		{"token never attached on allocate", allocate, full, tenantA, ""},
		{"tenant attached on tenant-optional action", createTenant, full, tenantA, "tok"},
		{"no tenant on tenant-optional action", createTenant, domain.Identity{APIToken: "tok"}, "", "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := dispatch.Headers(tt.desc, tt.id)
			assert.Equal(t, "application/json", h.Get("Content-Type"))
			assert.Equal(t, tt.wantTenant, h.Get("X-Tenant-Id"))
			assert.Equal(t, tt.wantToken, h.Get("X-Api-Token"))
		})
	}
}

func TestDispatch_SendsJSONBodyAndHeaders(t *testing.T) {
	backend := testutils.NewBackend(t)
	backend.Respond(http.MethodPost, "/api/orders", http.StatusCreated, `{"order_id":"o1"}`)
	d := newDispatcher(t, backend.URL, domain.Identity{TenantID: tenantA})

	raw, err := d.Dispatch(context.Background(), createOrder, dispatch.Request{
		Body: map[string]any{"customer_id": "c1", "lines": []map[string]any{{"product_id": "p1", "qty": 2}}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, raw.Status)
	assert.NoError(t, raw.ParseErr)
	assert.Equal(t, map[string]any{"order_id": "o1"}, raw.Body)

	rec := backend.Last(t)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/orders", rec.Path)
	assert.Equal(t, tenantA, rec.Header.Get("X-Tenant-Id"))
	assert.Empty(t, rec.Header.Values("X-Api-Token"))
	assert.JSONEq(t, `{"customer_id":"c1","lines":[{"product_id":"p1","qty":2}]}`, rec.RawBody)
}

func TestDispatch_PathParamsAndQuery(t *testing.T) {
	backend := testutils.NewBackend(t)
	d := newDispatcher(t, backend.URL+"/", domain.Identity{TenantID: tenantA, APIToken: "tok"})

	_, err := d.Dispatch(context.Background(), allocate, dispatch.Request{
		PathParams: map[string]string{"id": "o 1"},
		Body:       map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/o 1/allocate", backend.Last(t).Path)
	assert.JSONEq(t, `{}`, backend.Last(t).RawBody)

	raw, err := d.Dispatch(context.Background(), search, dispatch.Request{Query: url.Values{"q": {"wid get"}, "limit": {"5"}}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, raw.Status)

	rec := backend.Last(t)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "limit=5&q=wid+get", rec.RawQuery)
	assert.Empty(t, rec.RawBody, "GET carries no body")
	assert.Equal(t, "tok", rec.Header.Get("X-Api-Token"))
}

func TestDispatch_MissingPathParam(t *testing.T) {
	backend := testutils.NewBackend(t)
	d := newDispatcher(t, backend.URL, domain.Identity{TenantID: tenantA})

	_, err := d.Dispatch(context.Background(), allocate, dispatch.Request{})
	var f *domain.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, domain.KindValidation, f.Kind)
	assert.Zero(t, backend.Count())
}

func TestDispatch_TransportFailure(t *testing.T) {
	d := newDispatcher(t, testutils.UnreachableURL(t), domain.Identity{TenantID: tenantA})

	raw, err := d.Dispatch(context.Background(), createOrder, dispatch.Request{Body: map[string]any{}})
	require.NoError(t, err, "transport failures are reported in the result")
	assert.Error(t, raw.TransportErr)
	assert.Zero(t, raw.Status)
}

func TestDispatch_MalformedBody(t *testing.T) {
	backend := testutils.NewBackend(t)
	backend.Respond(http.MethodPost, "/api/refresh_current_stock", http.StatusOK, `not json`)
	d := newDispatcher(t, backend.URL, domain.Identity{TenantID: tenantA})

	desc := domain.ActionDescriptor{Name: "refresh", Method: http.MethodPost, Path: "/api/refresh_current_stock", RequireTenant: true}
	raw, err := d.Dispatch(context.Background(), desc, dispatch.Request{Body: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, raw.Status)
	assert.Error(t, raw.ParseErr)
	assert.Nil(t, raw.Body)
}

func TestDispatch_MaxBodySize(t *testing.T) {
	backend := testutils.NewBackend(t)
	backend.Respond(http.MethodGet, "/api/current_stock", http.StatusOK, `{"items":[1,2,3]}`)
	desc := domain.ActionDescriptor{Name: "current_stock", Method: http.MethodGet, Path: "/api/current_stock", RequireTenant: true}
	id := domain.Identity{TenantID: tenantA}

	raw, err := newDispatcher(t, backend.URL, id, dispatch.WithMaxBodySize(8)).Dispatch(context.Background(), desc, dispatch.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, raw.Status)
	assert.Error(t, raw.ParseErr, "the body is cut at the limit")

	raw, err = newDispatcher(t, backend.URL, id, dispatch.WithMaxBodySize(0)).Dispatch(context.Background(), desc, dispatch.Request{})
	require.NoError(t, err)
	require.NoError(t, raw.ParseErr, "a non-positive limit keeps the default")
	assert.Len(t, raw.Body.(map[string]any)["items"], 3)
}

func TestDispatch_Hooks(t *testing.T) {
	backend := testutils.NewBackend(t)
	var events []*domain.DispatchEvent
	d := newDispatcher(t, backend.URL, domain.Identity{TenantID: tenantA}, dispatch.WithHooks(domain.Hooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) { events = append(events, e) },
	}))

	_, _ = d.Dispatch(context.Background(), createOrder, dispatch.Request{Body: map[string]any{}})
	_, _ = d.Dispatch(context.Background(), createProduct, dispatch.Request{})

	require.Len(t, events, 1, "refused dispatches do not fire OnDispatch")
	assert.Equal(t, "create_order", events[0].Action)
	assert.Equal(t, tenantA, events[0].Tenant)
}

func TestNew_Validation(t *testing.T) {
	_, err := dispatch.New("ftp://example.com", staticCreds{})
	assert.Error(t, err)

	_, err = dispatch.New("http://localhost:8000", nil)
	assert.Error(t, err)

	d, err := dispatch.New(" http://localhost:8000/ ", staticCreds{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", d.BaseURL())
}
