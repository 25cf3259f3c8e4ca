package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/domain"
)

// DefaultMaxBodySize caps how much of a response body is read (8 MiB).
const DefaultMaxBodySize int64 = 8 << 20

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials exposes the current identity.
type Credentials interface {
	Identity() domain.Identity
}

// Dispatcher builds and sends requests for action descriptors.
// Safe for concurrent use.
type Dispatcher struct {
	baseURL *url.URL
	client  Doer
	creds   Credentials
	hooks   domain.Hooks
	logger  *slog.Logger
	maxBody int64
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the default client (which has no timeout).
func WithHTTPClient(client Doer) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.client = client
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMaxBodySize caps response body reads.
func WithMaxBodySize(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxBody = n
		}
	}
}

// New creates a Dispatcher for the backend at baseURL.
func New(baseURL string, creds Credentials, opts ...Option) (*Dispatcher, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials are required")
	}

	d := &Dispatcher{
		baseURL: u,
		client:  &http.Client{},
		creds:   creds,
		logger:  logging.NewNop(),
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// BaseURL returns the backend root.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL.String()
}

// Preflight enforces the descriptor's credential requirements.
// It returns nil or a *domain.Failure of kind missing_tenant / missing_token.
func Preflight(desc domain.ActionDescriptor, id domain.Identity) *domain.Failure {
	if desc.RequireTenant && !id.HasTenant() {
		return domain.NewFailure(domain.KindMissingTenant, domain.MsgTenantRequired)
	}
	if desc.RequireToken && !id.HasToken() {
		return domain.NewFailure(domain.KindMissingToken, domain.MsgTokenRequired)
	}
	return nil
}

// Headers returns the headers sent for desc under identity id.
// The tenant is attached whenever one is present, regardless of requirement.
func Headers(desc domain.ActionDescriptor, id domain.Identity) http.Header {
	h := http.Header{}
	h.Set(domain.HeaderContentType, domain.ContentTypeJSON)
	if id.HasTenant() {
		h.Set(domain.HeaderTenant, id.TenantID)
	}
	if id.HasToken() && desc.SendsToken() {
		h.Set(domain.HeaderToken, id.APIToken)
	}
	return h
}

// Dispatch issues exactly one request for desc.
// A credential policy violation is returned as a *domain.Failure error and no
// request is made. Transport failures are reported in RawResult.TransportErr.
func (d *Dispatcher) Dispatch(ctx context.Context, desc domain.ActionDescriptor, req Request) (RawResult, error) {
	id := d.creds.Identity()
	if f := Preflight(desc, id); f != nil {
		d.logger.Debug("dispatch refused", "action", desc.Name, "kind", f.Kind)
		return RawResult{}, f
	}

	target, err := d.resolve(desc.Path, req)
	if err != nil {
		return RawResult{}, domain.NewFailure(domain.KindValidation, err.Error())
	}

	var body io.Reader
	if req.Body != nil && desc.HasBody() {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return RawResult{}, domain.NewFailure(domain.KindValidation, fmt.Sprintf("Request payload could not be encoded: %v", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(desc.Method), target, body)
	if err != nil {
		return RawResult{}, domain.NewFailure(domain.KindValidation, fmt.Sprintf("Request could not be built: %v", err))
	}
	httpReq.Header = Headers(desc, id)

	if d.hooks.OnDispatch != nil {
		d.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			Timestamp: time.Now(),
			Action:    desc.Name,
			Method:    httpReq.Method,
			URL:       target,
			Tenant:    id.TenantID,
		})
	}

	start := time.Now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		d.logger.Debug("dispatch transport failure", "action", desc.Name, "url", target, "error", err)
		return RawResult{TransportErr: err, Duration: time.Since(start)}, nil
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, d.maxBody))
	result := RawResult{Status: resp.StatusCode, Duration: time.Since(start)}
	if readErr != nil {
		result.ParseErr = fmt.Errorf("read response body: %w", readErr)
	} else {
		result.Body, result.ParseErr = decodeBody(raw)
	}

	d.logger.Debug("dispatch complete", "action", desc.Name, "status", resp.StatusCode, "duration", result.Duration)
	return result, nil
}

func (d *Dispatcher) resolve(path string, req Request) (string, error) {
	expanded, err := expandPath(path, req.PathParams)
	if err != nil {
		return "", err
	}
	u := *d.baseURL
	rawPath := strings.TrimRight(u.EscapedPath(), "/") + expanded
	if u.Path, err = url.PathUnescape(rawPath); err != nil {
		return "", err
	}
	u.RawPath = rawPath
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String(), nil
}

// expandPath substitutes {name} placeholders with path-escaped values.
func expandPath(path string, params map[string]string) (string, error) {
	var b strings.Builder
	for {
		open := strings.IndexByte(path, '{')
		if open < 0 {
			b.WriteString(path)
			return b.String(), nil
		}
		end := strings.IndexByte(path[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated path parameter in %q", path)
		}
		name := path[open+1 : open+end]
		val, ok := params[name]
		if !ok || val == "" {
			return "", fmt.Errorf("missing path parameter %q", name)
		}
		b.WriteString(path[:open])
		b.WriteString(url.PathEscape(val))
		path = path[open+end+1:]
	}
}

// decodeBody parses a JSON body, keeping numbers as json.Number.
func decodeBody(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode response body: trailing data")
	}
	return v, nil
}
