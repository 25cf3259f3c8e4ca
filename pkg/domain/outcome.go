package domain

import "fmt"

// ErrorKind classifies a failed Outcome.
type ErrorKind string

const (
	KindMissingTenant ErrorKind = "missing_tenant"
	KindMissingToken  ErrorKind = "missing_token"
	KindValidation    ErrorKind = "validation"
	KindApplication   ErrorKind = "application"
	KindTransport     ErrorKind = "transport"
)

// Failure is the error half of an Outcome.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Status is the HTTP status for application errors, zero otherwise.
	Status int `json:"status,omitempty"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NewFailure builds a Failure of the given kind.
func NewFailure(kind ErrorKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// Outcome is the normalized result of one action.
// Exactly one of Payload (success) or Err (failure) is meaningful.
type Outcome struct {
	Action  string   `json:"action"`
	Slot    Slot     `json:"slot"`
	Payload any      `json:"payload,omitempty"`
	Err     *Failure `json:"error,omitempty"`
}

// Success wraps a decoded response body.
func Success(payload any) Outcome {
	if payload == nil {
		payload = map[string]any{}
	}
	return Outcome{Payload: payload}
}

// Fail wraps a failure.
func Fail(f *Failure) Outcome {
	return Outcome{Err: f}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Panel returns the value rendered into an output panel:
// the payload on success, {"error": message} on failure.
func (o Outcome) Panel() any {
	if o.Err != nil {
		return map[string]string{"error": o.Err.Message}
	}
	return o.Payload
}

// Kind returns the failure kind, or "" on success.
func (o Outcome) Kind() ErrorKind {
	if o.Err == nil {
		return ""
	}
	return o.Err.Kind
}
