// Package lock provides per-key mutual exclusion for operations on one user's event set.
package lock

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNotObtained = errors.New("lock is held by another operation")

type Lock interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Obtain blocks until the key is free, ctx is done, or the backend gives up with ErrNotObtained
	Obtain(ctx context.Context, key string) (Lock, error)
}

// UserKey is the lock key guarding a user's events, corrections and reports.
func UserKey(userID string) string {
	return "attendance:user:" + userID
}

// Do runs fn while holding key. A failed release is logged; the lock backend
// expires or frees it on its own.
func Do(ctx context.Context, l Locker, key string, fn func(ctx context.Context) error) error {
	held, err := l.Obtain(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release lock", "key", key, "error", err)
		}
	}()
	return fn(ctx)
}
