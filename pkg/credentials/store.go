package credentials

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/ports"
)

// Store owns the tenant identity and API token.
// Safe for concurrent use.
type Store struct {
	kv     ports.KeyValueStore
	status *domain.StatusBoard
	logger *slog.Logger

	mu     sync.RWMutex
	tenant string
	token  string

	// writeMu serializes updates so the persisted copy and the status lines
	// always reflect the latest in-memory value.
	writeMu sync.Mutex
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for swallowed persistence errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithStatusBoard shares a status board with other components.
func WithStatusBoard(board *domain.StatusBoard) Option {
	return func(s *Store) {
		s.status = board
	}
}

// New creates a Store persisting to kv. Call Restore to load cached values.
func New(kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.status == nil {
		s.status = domain.NewStatusBoard()
	}
	return s
}

// Status returns the board the store writes to.
func (s *Store) Status() *domain.StatusBoard {
	return s.status
}

// Identity returns a snapshot of both credentials.
func (s *Store) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Identity{TenantID: s.tenant, APIToken: s.token}
}

// Tenant returns the current tenant id, "" if unset.
func (s *Store) Tenant() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant
}

// Token returns the current API token, "" if unset.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ApplyTenant trims raw and makes it the current tenant.
// A blank value clears the cached tenant and returns domain.ErrEmptyTenant.
func (s *Store) ApplyTenant(ctx context.Context, raw string) (string, error) {
	tid := strings.TrimSpace(raw)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.tenant = tid
	s.mu.Unlock()

	return tid, s.syncTenant(ctx, tid)
}

// RefreshTenant writes the current tenant back to the store and the status
// board without changing it. A concurrent ApplyTenant is never reverted.
func (s *Store) RefreshTenant(ctx context.Context) string {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tid := s.Tenant()
	_ = s.syncTenant(ctx, tid)
	return tid
}

func (s *Store) syncTenant(ctx context.Context, tid string) error {
	if tid == "" {
		s.forget(ctx, domain.KeyTenant)
		s.status.Set(domain.IndicatorTenant, domain.MsgTenantPrompt, true)
		return domain.ErrEmptyTenant
	}

	s.remember(ctx, domain.KeyTenant, tid)
	s.status.Set(domain.IndicatorTenant, domain.TenantSet(tid), false)
	return nil
}

// ApplyToken trims raw and makes it the current token. A blank value clears it.
// The token is optional at this layer, so ApplyToken never fails.
func (s *Store) ApplyToken(ctx context.Context, raw string) string {
	token := strings.TrimSpace(raw)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if token == "" {
		s.forget(ctx, domain.KeyToken)
		s.status.Set(domain.IndicatorAPI, domain.MsgTokenCleared, false)
		return ""
	}

	s.remember(ctx, domain.KeyToken, token)
	s.status.Set(domain.IndicatorAPI, domain.MsgTokenSaved, false)
	return token
}

// Restore loads cached credentials. When no tenant is cached, defaultTenant is
// used (without persisting it); when neither exists the tenant status shows the prompt.
func (s *Store) Restore(ctx context.Context, defaultTenant string) domain.Identity {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cachedTenant, err := s.load(ctx, domain.KeyTenant)
	if err != nil {
		cachedTenant = ""
	}
	cachedToken, err := s.load(ctx, domain.KeyToken)
	if err != nil {
		cachedToken = ""
	}
	defaultTenant = strings.TrimSpace(defaultTenant)

	s.mu.Lock()
	switch {
	case cachedTenant != "":
		s.tenant = cachedTenant
	case defaultTenant != "":
		s.tenant = defaultTenant
	default:
		s.tenant = ""
	}
	tenant := s.tenant
	if cachedToken != "" {
		s.token = cachedToken
	}
	s.mu.Unlock()

	if tenant != "" {
		s.status.Set(domain.IndicatorTenant, domain.TenantSet(tenant), false)
	} else {
		s.status.Set(domain.IndicatorTenant, domain.MsgTenantPrompt, true)
	}
	if cachedToken != "" {
		s.status.Set(domain.IndicatorAPI, domain.MsgTokenLoaded, false)
	}

	return s.Identity()
}

// load reads a cached value. Absence and backend failures both come back as
// errors; callers decide to treat them as "no cached value".
func (s *Store) load(ctx context.Context, key string) (string, error) {
	val, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("credential cache unreadable", "key", key, "error", err)
		}
		return "", err
	}
	return strings.TrimSpace(val), nil
}

func (s *Store) remember(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.logger.Warn("credential cache write failed", "key", key, "error", err)
	}
}

func (s *Store) forget(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		s.logger.Warn("credential cache clear failed", "key", key, "error", err)
	}
}
