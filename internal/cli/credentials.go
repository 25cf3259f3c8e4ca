package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/osl/pkg/domain"
)

// SetTenant applies and persists a tenant id, then prints the status lines.
func SetTenant(opts Options, raw string) error {
	return withSession(opts, func(ctx context.Context, sess *Session) error {
		_, err := sess.Console.SetTenant(ctx, raw)
		sess.PrintStatus()
		if errors.Is(err, domain.ErrEmptyTenant) {
			return fmt.Errorf("%w: tenant", ErrActionFailed)
		}
		return err
	})
}

// SetToken applies and persists the API token (blank clears it).
func SetToken(opts Options, raw string) error {
	return withSession(opts, func(ctx context.Context, sess *Session) error {
		sess.Console.SetToken(ctx, raw)
		sess.PrintStatus()
		return nil
	})
}

// ShowStatus prints the restored status lines.
func ShowStatus(opts Options) error {
	return withSession(opts, func(ctx context.Context, sess *Session) error {
		sess.PrintStatus()
		return nil
	})
}

func withSession(opts Options, fn func(ctx context.Context, sess *Session) error) error {
	sess, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := context.Background()
	sess.Restore(ctx, false)
	return fn(ctx, sess)
}
