package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/osl"
	"github.com/aretw0/osl/internal/config"
	"github.com/aretw0/osl/internal/metrics"
	"github.com/aretw0/osl/pkg/adapters/file"
	"github.com/aretw0/osl/pkg/adapters/memory"
	"github.com/aretw0/osl/pkg/adapters/redis"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/persistence/middleware"
	"github.com/aretw0/osl/pkg/ports"
	"github.com/aretw0/osl/pkg/presenter"
)

// Options are the global flags shared by every command. Empty values fall back
// to the configuration file and the environment.
type Options struct {
	ConfigPath    string
	BaseURL       string
	Store         string
	StorePath     string
	RedisURL      string
	DefaultTenant string
	JSON          bool
	Debug         bool
	// Quiet drops outcome rendering, e.g. when stdout carries a protocol.
	Quiet bool

	// MetricsAddr enables Prometheus metrics collection (served by the shell).
	MetricsAddr string

	Stdout io.Writer
	Stderr io.Writer
}

// Resolve merges flags over the loaded configuration.
func (o Options) Resolve() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Store != "" {
		cfg.Store.Backend = o.Store
	}
	if o.StorePath != "" {
		cfg.Store.Path = o.StorePath
	}
	if o.RedisURL != "" {
		cfg.Store.RedisURL = o.RedisURL
	}
	if o.DefaultTenant != "" {
		cfg.DefaultTenantID = o.DefaultTenant
	}
	if o.JSON {
		cfg.Output = config.OutputJSON
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// statusWriter is implemented by both presenters.
type statusWriter interface {
	ports.Presenter
	Status(domain.Status)
	Watch(*domain.StatusBoard)
}

// Session is a wired Console plus the resources the CLI must release.
type Session struct {
	Console *osl.Console
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Collector

	out    statusWriter
	status statusWriter
	close  func() error
}

// NewSession resolves configuration and wires a Console. It does not touch the
// store; call Restore.
func NewSession(opts Options) (*Session, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	logger := createLogger(opts.Debug, opts.Stderr)

	kv, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	s := &Session{Config: cfg, Logger: logger, close: closeStore}
	if cfg.Output == config.OutputJSON {
		j := presenter.NewJSON(opts.Stdout)
		s.out, s.status = j, j
	} else {
		s.out = presenter.NewText(opts.Stdout, presenter.TerminalOptions(opts.Stdout)...)
		s.status = presenter.NewText(opts.Stderr, presenter.TerminalOptions(opts.Stderr)...)
	}

	consoleOpts := []osl.Option{
		osl.WithStore(kv),
		osl.WithDefaultTenant(cfg.DefaultTenantID),
		osl.WithLogger(logger),
		osl.WithMaxBodySize(cfg.MaxBodyBytes),
	}
	if !opts.Quiet {
		consoleOpts = append(consoleOpts, osl.WithPresenter(s.out))
	}
	if opts.Debug {
		consoleOpts = append(consoleOpts, osl.WithHooks(createDebugHooks(logger)))
	}
	if opts.MetricsAddr != "" {
		s.Metrics = metrics.New()
		consoleOpts = append(consoleOpts, osl.WithHooks(s.Metrics.Hooks()))
	}

	console, err := osl.New(cfg.BaseURL, consoleOpts...)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("error initializing console: %w", err)
	}
	s.Console = console
	return s, nil
}

// Restore loads cached state. With watch set, every later status change is printed.
func (s *Session) Restore(ctx context.Context, watch bool) domain.Identity {
	id := s.Console.Restore(ctx)
	if watch {
		s.status.Watch(s.Console.Status())
	}
	return id
}

// PrintStatus writes the current value of both status lines.
func (s *Session) PrintStatus() {
	board := s.Console.Status()
	s.status.Status(board.Get(domain.IndicatorTenant))
	if st := board.Get(domain.IndicatorAPI); st.Message != "" {
		s.status.Status(st)
	}
}

// Close releases the store.
func (s *Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStore(cfg config.StoreConfig) (ports.KeyValueStore, func() error, error) {
	kv, closeStore, err := openBackend(cfg)
	if err != nil || cfg.EncryptionKey == "" {
		return kv, closeStore, err
	}

	mw, err := encryptionMiddleware(cfg)
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, nil, err
	}
	return middleware.Chain(kv, mw), closeStore, nil
}

func encryptionMiddleware(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store.encryption_key: %w", err)
	}
	encCfg := middleware.EncryptionConfig{ActiveKey: active}
	for i, raw := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid store.fallback_keys[%d]: %w", i, err)
		}
		encCfg.FallbackKeys = append(encCfg.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(encCfg)
}

func openBackend(cfg config.StoreConfig) (ports.KeyValueStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil, nil
	case config.BackendFile:
		return file.New(cfg.Path), nil, nil
	case config.BackendRedis:
		ttl, err := cfg.TTLDuration()
		if err != nil {
			return nil, nil, err
		}
		store, err := redis.New(cfg.RedisURL, redis.WithPrefix(cfg.Prefix), redis.WithTTL(ttl))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
