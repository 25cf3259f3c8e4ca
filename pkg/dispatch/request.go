package dispatch

import (
	"net/url"
	"time"
)

// Request carries the per-invocation inputs of an action.
type Request struct {
	// PathParams fill {name} placeholders of the descriptor path.
	PathParams map[string]string
	// Query is appended to the URL (GET actions).
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// RawResult is what the wire returned, before normalization.
type RawResult struct {
	// Status is the HTTP status code, zero when no response was obtained.
	Status int
	// Body is the decoded JSON body; nil when ParseErr is set.
	Body any
	// ParseErr is set when the body was not valid JSON.
	ParseErr error
	// TransportErr is set when no response was obtained at all.
	TransportErr error
	Duration     time.Duration
}

// OK reports whether the status is in [200,300).
func (r RawResult) OK() bool {
	return r.TransportErr == nil && r.Status >= 200 && r.Status < 300
}
