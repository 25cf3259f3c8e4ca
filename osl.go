package osl

import (
	"context"
	"log/slog"

	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/adapters/memory"
	"github.com/aretw0/osl/pkg/credentials"
	"github.com/aretw0/osl/pkg/dispatch"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/ports"
	"github.com/aretw0/osl/pkg/workflow"
)

// Version is the client version reported by the CLI and the MCP server.
var Version = "0.1.0-dev"

// Console is one operator session: credentials, form state and the command table
// bound to a backend.
type Console struct {
	kv            ports.KeyValueStore
	board         *domain.StatusBoard
	presenter     ports.Presenter
	hooks         domain.Hooks
	logger        *slog.Logger
	client        dispatch.Doer
	maxBodySize   int64
	defaultTenant string

	creds       *credentials.Store
	dispatcher  *dispatch.Dispatcher
	fields      *workflow.Fields
	coordinator *workflow.Coordinator
}

// Option defines a functional option for configuring the Console.
type Option func(*Console)

// WithStore persists credentials and chained fields in kv (default: in memory).
func WithStore(kv ports.KeyValueStore) Option {
	return func(c *Console) {
		c.kv = kv
	}
}

// WithPresenter renders every outcome.
func WithPresenter(p ports.Presenter) Option {
	return func(c *Console) {
		c.presenter = p
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Console) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client used for backend calls.
func WithHTTPClient(client dispatch.Doer) Option {
	return func(c *Console) {
		c.client = client
	}
}

// WithMaxBodySize caps how many bytes of a response body are read
// (default dispatch.DefaultMaxBodySize).
func WithMaxBodySize(n int64) Option {
	return func(c *Console) {
		c.maxBodySize = n
	}
}

// WithDefaultTenant sets the tenant used when none is cached.
func WithDefaultTenant(tenantID string) Option {
	return func(c *Console) {
		c.defaultTenant = tenantID
	}
}

// WithStatusBoard shares an existing status board.
func WithStatusBoard(board *domain.StatusBoard) Option {
	return func(c *Console) {
		c.board = board
	}
}

// New wires a Console for the backend at baseURL. Call Restore before the
// first action to load cached credentials.
func New(baseURL string, opts ...Option) (*Console, error) {
	c := &Console{}
	for _, opt := range opts {
		opt(c)
	}
	if c.kv == nil {
		c.kv = memory.NewStore()
	}
	if c.board == nil {
		c.board = domain.NewStatusBoard()
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}

	c.creds = credentials.New(c.kv,
		credentials.WithLogger(c.logger),
		credentials.WithStatusBoard(c.board),
	)

	dispatchOpts := []dispatch.Option{
		dispatch.WithHooks(c.hooks),
		dispatch.WithLogger(c.logger),
	}
	if c.client != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithHTTPClient(c.client))
	}
	if c.maxBodySize > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithMaxBodySize(c.maxBodySize))
	}
	d, err := dispatch.New(baseURL, c.creds, dispatchOpts...)
	if err != nil {
		return nil, err
	}
	c.dispatcher = d

	c.fields = workflow.NewFields(c.kv, c.logger)
	c.coordinator = workflow.New(c.creds, c.dispatcher,
		workflow.WithFields(c.fields),
		workflow.WithPresenter(c.presenter),
		workflow.WithHooks(c.hooks),
		workflow.WithLogger(c.logger),
	)
	return c, nil
}

// Restore loads cached credentials and chained fields.
func (c *Console) Restore(ctx context.Context) domain.Identity {
	c.fields.Restore(ctx)
	return c.creds.Restore(ctx, c.defaultTenant)
}

// Invoke runs one action of the command table.
func (c *Console) Invoke(ctx context.Context, action string, overrides map[string]string) (domain.Outcome, error) {
	return c.coordinator.Invoke(ctx, action, overrides)
}

// Actions lists the command table.
func (c *Console) Actions() []workflow.Command {
	return c.coordinator.Actions()
}

// SetTenant applies a tenant id; a blank value clears it and returns domain.ErrEmptyTenant.
func (c *Console) SetTenant(ctx context.Context, raw string) (string, error) {
	return c.creds.ApplyTenant(ctx, raw)
}

// SetToken applies an API token; a blank value clears it.
func (c *Console) SetToken(ctx context.Context, raw string) string {
	return c.creds.ApplyToken(ctx, raw)
}

// Identity returns the current credentials.
func (c *Console) Identity() domain.Identity {
	return c.creds.Identity()
}

// Status returns the shared status board.
func (c *Console) Status() *domain.StatusBoard {
	return c.board
}

// Fields returns the form state.
func (c *Console) Fields() *workflow.Fields {
	return c.fields
}

// BaseURL returns the backend root.
func (c *Console) BaseURL() string {
	return c.dispatcher.BaseURL()
}
