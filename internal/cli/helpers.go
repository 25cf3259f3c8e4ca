package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/domain"
)

// ErrActionFailed is returned when an action resolved to a failure outcome.
// The failure itself has already been presented.
var ErrActionFailed = errors.New("action failed")

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to w (stderr) to keep stdout for outcomes.
func createLogger(debug bool, w io.Writer) *slog.Logger {
	if debug {
		return logging.NewWithWriter(w, slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.Debug("Dispatch", "action", e.Action, "method", e.Method, "url", e.URL, "tenant", e.Tenant)
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			if e.Kind != "" {
				logger.Debug("Outcome (Failure)", "action", e.Action, "kind", e.Kind, "status", e.Status, "dispatched", e.Dispatched)
			} else {
				logger.Debug("Outcome (Success)", "action", e.Action, "status", e.Status, "duration", e.Duration)
			}
		},
	}
}

// RunAction runs a single action in a fresh session: restore, invoke, present.
func RunAction(opts Options, action string, overrides map[string]string) error {
	sess, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	sess.Restore(sigCtx, false)
	out, err := sess.Console.Invoke(sigCtx, action, overrides)
	if err != nil {
		return err
	}
	if !out.OK() {
		return fmt.Errorf("%w: %s", ErrActionFailed, action)
	}
	return nil
}
