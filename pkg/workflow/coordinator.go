package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/dispatch"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/ports"
)

// ErrUnknownField is returned when an override names a field the action does not read.
var ErrUnknownField = errors.New("unknown field")

// Credentials is the part of the credential store the Coordinator needs.
type Credentials interface {
	Tenant() string
	ApplyTenant(ctx context.Context, raw string) (string, error)
	// RefreshTenant re-persists the current tenant and its status line.
	RefreshTenant(ctx context.Context) string
	Status() *domain.StatusBoard
}

// Dispatcher sends one request per action.
type Dispatcher interface {
	Dispatch(ctx context.Context, desc domain.ActionDescriptor, req dispatch.Request) (dispatch.RawResult, error)
}

// Coordinator runs actions from the command table.
type Coordinator struct {
	creds      Credentials
	dispatcher Dispatcher
	fields     *Fields
	presenter  ports.Presenter
	hooks      domain.Hooks
	logger     *slog.Logger

	order    []string
	commands map[string]Command
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithFields shares form state, typically one backed by a key-value store.
func WithFields(fields *Fields) Option {
	return func(c *Coordinator) {
		c.fields = fields
	}
}

// WithPresenter sets the collaborator that renders every outcome.
func WithPresenter(p ports.Presenter) Option {
	return func(c *Coordinator) {
		c.presenter = p
	}
}

// WithHooks registers observability hooks (OnOutcome).
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Coordinator) {
		c.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// New creates a Coordinator over the standard command table.
func New(creds Credentials, dispatcher Dispatcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		creds:      creds,
		dispatcher: dispatcher,
		logger:     logging.NewNop(),
		commands:   make(map[string]Command),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fields == nil {
		c.fields = NewFields(nil, c.logger)
	}
	for _, cmd := range commandTable() {
		c.order = append(c.order, cmd.Name())
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Fields returns the form state.
func (c *Coordinator) Fields() *Fields {
	return c.fields
}

// Actions lists the command table in presentation order.
func (c *Coordinator) Actions() []Command {
	out := make([]Command, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.commands[name])
	}
	return out
}

// Lookup returns the command registered under name.
func (c *Coordinator) Lookup(name string) (Command, bool) {
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Invoke runs one action: overrides are written to the form, the request is
// validated and dispatched, chaining runs on success and the outcome is handed
// to the presenter. Failures of the action itself are reported in the Outcome;
// the error is reserved for unknown actions/fields and presenter failures.
func (c *Coordinator) Invoke(ctx context.Context, action string, overrides map[string]string) (domain.Outcome, error) {
	cmd, ok := c.commands[action]
	if !ok {
		return domain.Outcome{}, fmt.Errorf("%w: %s", domain.ErrUnknownAction, action)
	}
	resolved, err := cmd.resolve(overrides)
	if err != nil {
		return domain.Outcome{}, err
	}

	// The request is built from this call's own view of the form; concurrent
	// invocations never see each other's overrides.
	values := c.fields.Snapshot()
	for field, val := range resolved {
		values[field] = val
		c.fields.Set(ctx, field, val)
	}

	start := time.Now()
	out, raw := c.run(ctx, cmd, values)
	out.Action = cmd.Name()
	out.Slot = cmd.Slot

	if !out.OK() {
		c.reflect(out.Err)
		c.logger.Debug("action failed", "action", action, "kind", out.Err.Kind, "message", out.Err.Message)
	}
	c.emit(ctx, out, raw, time.Since(start))

	if c.presenter != nil {
		if err := c.presenter.Present(ctx, cmd.Slot, out); err != nil {
			return out, fmt.Errorf("present %s: %w", action, err)
		}
	}
	return out, nil
}

// run returns the outcome and, when a request went out, the raw result.
func (c *Coordinator) run(ctx context.Context, cmd Command, values Values) (domain.Outcome, *dispatch.RawResult) {
	req, f := cmd.build(values)
	if f != nil {
		return domain.Fail(f), nil
	}

	if cmd.Descriptor.RequireTenant {
		c.creds.RefreshTenant(ctx)
	}

	raw, err := c.dispatcher.Dispatch(ctx, cmd.Descriptor, req)
	if err != nil {
		var failure *domain.Failure
		if errors.As(err, &failure) {
			return domain.Fail(failure), nil
		}
		c.logger.Warn("dispatch error", "action", cmd.Name(), "error", err)
		return domain.Fail(domain.NewFailure(domain.KindTransport, domain.MsgTransportFailure)), nil
	}

	out := dispatch.Normalize(raw)
	if out.OK() && cmd.chain != nil {
		ref, err := decodeRef(out.Payload)
		if err != nil {
			c.logger.Debug("response carries no chainable ids", "action", cmd.Name(), "error", err)
		} else {
			cmd.chain(ctx, c, ref)
		}
	}
	return out, &raw
}

// reflect mirrors tenant and transport failures onto the tenant status line.
func (c *Coordinator) reflect(f *domain.Failure) {
	switch f.Kind {
	case domain.KindMissingTenant, domain.KindTransport:
		c.creds.Status().Set(domain.IndicatorTenant, f.Message, true)
	}
}

func (c *Coordinator) emit(ctx context.Context, out domain.Outcome, raw *dispatch.RawResult, elapsed time.Duration) {
	if c.hooks.OnOutcome == nil {
		return
	}
	ev := &domain.OutcomeEvent{
		Timestamp:  time.Now(),
		Action:     out.Action,
		Kind:       out.Kind(),
		Duration:   elapsed,
		Dispatched: raw != nil,
	}
	if raw != nil {
		ev.Status = raw.Status
		ev.Duration = raw.Duration
	}
	c.hooks.OnOutcome(ctx, ev)
}
