package domain

import (
	"context"
	"time"
)

// DispatchEvent is emitted right before a request goes on the wire.
type DispatchEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Tenant    string    `json:"tenant,omitempty"`
}

// OutcomeEvent is emitted once an action has been resolved, dispatched or not.
type OutcomeEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	Action     string        `json:"action"`
	Kind       ErrorKind     `json:"kind,omitempty"`
	Status     int           `json:"status,omitempty"`
	Duration   time.Duration `json:"duration"`
	Dispatched bool          `json:"dispatched"`
}

// Hooks defines callbacks for observability.
type Hooks struct {
	OnDispatch func(context.Context, *DispatchEvent)
	OnOutcome  func(context.Context, *OutcomeEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnDispatch: chain(h.OnDispatch, other.OnDispatch),
		OnOutcome:  chain(h.OnOutcome, other.OnOutcome),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
