package ports

import (
	"context"

	"github.com/aretw0/osl/pkg/domain"
)

// Presenter renders outcomes into their output slot.
type Presenter interface {
	Present(ctx context.Context, slot domain.Slot, outcome domain.Outcome) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ctx context.Context, slot domain.Slot, outcome domain.Outcome) error

func (f PresenterFunc) Present(ctx context.Context, slot domain.Slot, outcome domain.Outcome) error {
	return f(ctx, slot, outcome)
}
