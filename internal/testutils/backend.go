package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Recorded is one request observed by the fake backend.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     map[string]any
	RawBody  string
}

type cannedResponse struct {
	status int
	body   string
}

// Backend is an in-process stand-in for the commerce API.
// It records every request and answers like the real routes unless a canned
// response was registered with Respond.
type Backend struct {
	*httptest.Server
	APIToken string

	mu       sync.Mutex
	requests []Recorded
	canned   map[string]cannedResponse
}

// NewBackend starts a fake backend that is closed with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{canned: make(map[string]cannedResponse)}

	r := chi.NewRouter()
	r.Use(b.record, b.cannedMiddleware)

	r.Post("/api/tenants", b.withToken(b.createTenant))
	r.Post("/api/products", b.withToken(b.withTenant(b.created("sku", "name"))))
	r.Get("/api/products", b.withTenant(b.items))
	r.Post("/api/customers", b.withToken(b.withTenant(b.created("code", "name"))))
	r.Post("/api/warehouses", b.withToken(b.withTenant(b.created("code", "name"))))
	r.Post("/api/orders", b.withTenant(b.createOrder))
	r.Post("/api/orders/{orderID}/allocate", b.withTenant(b.orderStatus("allocated")))
	r.Post("/api/orders/{orderID}/release", b.withTenant(b.orderStatus("released")))
	r.Post("/api/stock_events", b.withToken(b.withTenant(b.createStockEvent)))
	r.Post("/api/refresh_current_stock", b.withTenant(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"refreshed": true})
	}))
	r.Get("/api/current_stock", b.withTenant(b.items))
	r.Put("/api/products/{id}", b.withToken(b.withTenant(b.updated("product"))))
	r.Put("/api/customers/{id}", b.withToken(b.withTenant(b.updated("customer"))))
	r.Put("/api/warehouses/{id}", b.withToken(b.withTenant(b.updated("warehouse"))))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// UnreachableURL returns the address of a server that is already closed.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// Respond registers a canned answer for method+path, bypassing the default route.
func (b *Backend) Respond(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests returns a copy of every recorded request.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// Count returns how many requests reached the backend.
func (b *Backend) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Last returns the most recent request; it fails the test when there is none.
func (b *Backend) Last(t *testing.T) Recorded {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatalf("backend received no requests")
	}
	return reqs[len(reqs)-1]
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))

		rec := Recorded{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			RawBody:  string(raw),
		}
		if len(raw) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			_ = dec.Decode(&rec.Body)
		}

		b.mu.Lock()
		b.requests = append(b.requests, rec)
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) cannedMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		resp, ok := b.canned[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = io.WriteString(w, resp.body)
	})
}

func (b *Backend) withToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.APIToken != "" && r.Header.Get("X-Api-Token") != b.APIToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid api token"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) withTenant(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := uuid.Parse(r.Header.Get("X-Tenant-Id")); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid or missing X-Tenant-Id header"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) createTenant(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	name, _ := body["name"].(string)
	if strings.TrimSpace(name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "name is required"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"tenant_id": uuid.NewString(), "name": name})
}

func (b *Backend) created(required ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		resp := map[string]any{"id": uuid.NewString()}
		for _, field := range required {
			v, _ := body[field].(string)
			if strings.TrimSpace(v) == "" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": field + " is required"})
				return
			}
			resp[field] = v
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// updated echoes the id and the fields that were sent, like the real PUT routes.
func (b *Backend) updated(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		if len(body) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no fields to update"})
			return
		}
		if _, err := uuid.Parse(chi.URLParam(r, "id")); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": entity + " not found"})
			return
		}
		body["id"] = chi.URLParam(r, "id")
		writeJSON(w, http.StatusOK, body)
	}
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	lines, _ := body["lines"].([]any)
	if len(lines) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "lines required"})
		return
	}
	if body["customer_id"] == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "customer_id required"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"order_id": uuid.NewString()})
}

func (b *Backend) orderStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"order_id": chi.URLParam(r, "orderID"), "status": status})
	}
}

func (b *Backend) createStockEvent(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	switch body["event_type"] {
	case "RECEIPT", "SHIP", "ADJUST_IN", "ADJUST_OUT":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid event_type"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": uuid.NewString(), "op_id": uuid.NewString(), "qty_delta": body["qty"]})
}

func (b *Backend) items(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
}

func decode(r *http.Request) map[string]any {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	_ = dec.Decode(&body)
	if body == nil {
		body = map[string]any{}
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
