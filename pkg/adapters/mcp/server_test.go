package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/osl"
	"github.com/aretw0/osl/internal/testutils"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenantA = "11111111-1111-1111-1111-111111111111"

func newTestServer(t *testing.T) (*Server, *testutils.Backend) {
	t.Helper()
	backend := testutils.NewBackend(t)
	console, err := osl.New(backend.URL)
	require.NoError(t, err)
	console.Restore(context.Background())
	return NewServer(console), backend
}

func (s *Server) handler(t *testing.T, name string) server.ToolHandlerFunc {
	t.Helper()
	for _, tl := range s.tools {
		if tl.def.Name == name {
			return tl.handler
		}
	}
	t.Fatalf("tool %q not registered", name)
	return nil
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestServer_Tools(t *testing.T) {
	s, _ := newTestServer(t)

	names := s.toolNames()
	assert.Contains(t, names, "create_order")
	assert.Contains(t, names, "current_stock")
	assert.Contains(t, names, "set_tenant")
	assert.Contains(t, names, "get_status")
	assert.Contains(t, names, "update_product")
	assert.Contains(t, names, "health")
	assert.Len(t, names, 18)
}

func TestServer_ActionRoundTrip(t *testing.T) {
	s, backend := newTestServer(t)

	res := call(t, s.handler(t, "set_tenant"), map[string]any{"tenant_id": tenantA})
	assert.False(t, res.IsError)
	assert.Equal(t, "Tenant set: "+tenantA, text(t, res))

	res = call(t, s.handler(t, "create_order"), map[string]any{"customer_id": "c1", "product_id": "p1", "qty": float64(2)})
	require.False(t, res.IsError, text(t, res))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &body))
	assert.NotEmpty(t, body["order_id"])
	assert.JSONEq(t, `{"customer_id":"c1","lines":[{"product_id":"p1","qty":2}]}`, backend.Last(t).RawBody)

	res = call(t, s.handler(t, "allocate"), nil)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "allocated")
}

func TestServer_ActionFailure(t *testing.T) {
	s, backend := newTestServer(t)

	res := call(t, s.handler(t, "create_product"), map[string]any{"sku": "S1", "name": "Widget", "price": "1"})
	assert.True(t, res.IsError)
	assert.JSONEq(t, `{"error":"Tenant ID is required."}`, text(t, res))

	res = call(t, s.handler(t, "allocate"), map[string]any{"bogus": "x"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "unknown field")
	assert.Zero(t, backend.Count())
}

func TestServer_CredentialTools(t *testing.T) {
	s, _ := newTestServer(t)

	res := call(t, s.handler(t, "set_tenant"), map[string]any{"tenant_id": "  "})
	assert.True(t, res.IsError)

	res = call(t, s.handler(t, "set_token"), map[string]any{"token": "tok"})
	assert.Equal(t, "API token saved", text(t, res))

	res = call(t, s.handler(t, "get_status"), nil)
	var st StatusResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &st))
	assert.True(t, st.HasToken)
	assert.Empty(t, st.TenantID)
	assert.True(t, st.Tenant.IsError)
	assert.NotContains(t, text(t, res), "tok\"")
}
