package dispatch_test

import (
	"errors"
	"testing"

	"github.com/aretw0/osl/pkg/dispatch"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	parseErr := errors.New("bad json")

	tests := []struct {
		name     string
		raw      dispatch.RawResult
		wantKind domain.ErrorKind
		wantMsg  string
		wantBody any
	}{
		{
			name:     "success",
			raw:      dispatch.RawResult{Status: 201, Body: map[string]any{"id": "p1"}},
			wantBody: map[string]any{"id": "p1"},
		},
		{
			name:     "success with malformed body",
			raw:      dispatch.RawResult{Status: 200, ParseErr: parseErr},
			wantBody: map[string]any{},
		},
		{
			name:     "server error message",
			raw:      dispatch.RawResult{Status: 409, Body: map[string]any{"error": "insufficient stock"}},
			wantKind: domain.KindApplication,
			wantMsg:  "insufficient stock",
		},
		{
			name:     "server message kept verbatim",
			raw:      dispatch.RawResult{Status: 400, Body: map[string]any{"error": "  qty must be positive\n"}},
			wantKind: domain.KindApplication,
			wantMsg:  "  qty must be positive\n",
		},
		{
			name:     "empty server message",
			raw:      dispatch.RawResult{Status: 404, Body: map[string]any{"error": ""}},
			wantKind: domain.KindApplication,
			wantMsg:  "Request failed (404)",
		},
		{
			name:     "error without message",
			raw:      dispatch.RawResult{Status: 500, Body: map[string]any{"detail": "boom"}},
			wantKind: domain.KindApplication,
			wantMsg:  "Request failed (500)",
		},
		{
			name:     "error with non-string message",
			raw:      dispatch.RawResult{Status: 400, Body: map[string]any{"error": map[string]any{"code": 1}}},
			wantKind: domain.KindApplication,
			wantMsg:  "Request failed (400)",
		},
		{
			name:     "error with unparseable body",
			raw:      dispatch.RawResult{Status: 502, ParseErr: parseErr},
			wantKind: domain.KindApplication,
			wantMsg:  "Request failed (502)",
		},
		{
			name:     "transport failure",
			raw:      dispatch.RawResult{TransportErr: errors.New("connection refused")},
			wantKind: domain.KindTransport,
			wantMsg:  "Request failed. Check the tenant ID or try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := dispatch.Normalize(tt.raw)
			if tt.wantKind == "" {
				require.True(t, out.OK())
				assert.Equal(t, tt.wantBody, out.Payload)
				return
			}
			require.False(t, out.OK())
			assert.Equal(t, tt.wantKind, out.Kind())
			assert.Equal(t, tt.wantMsg, out.Err.Message)
			assert.Equal(t, map[string]string{"error": tt.wantMsg}, out.Panel())
		})
	}
}

func TestNormalize_ApplicationStatus(t *testing.T) {
	out := dispatch.Normalize(dispatch.RawResult{Status: 409, Body: map[string]any{"error": "insufficient stock"}})
	assert.Equal(t, 409, out.Err.Status)
}

func TestRawResult_OK(t *testing.T) {
	assert.True(t, dispatch.RawResult{Status: 200}.OK())
	assert.True(t, dispatch.RawResult{Status: 299}.OK())
	assert.False(t, dispatch.RawResult{Status: 300}.OK())
	assert.False(t, dispatch.RawResult{Status: 199}.OK())
	assert.False(t, dispatch.RawResult{Status: 200, TransportErr: errors.New("reset")}.OK())
}
