// Package memory holds in-process repositories for tests and local development.
// Every repository created from one Store shares its data and its transaction.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]user.User
	events      map[string]attendance.TimeEvent
	corrections map[string]correction.Correction
	reports     map[string]report.MonthlyReport

	// Now stamps created_at and updated_at columns
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		events:      make(map[string]attendance.TimeEvent),
		corrections: make(map[string]correction.Correction),
		reports:     make(map[string]report.MonthlyReport),
		Now:         time.Now,
	}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// read and write take the store lock unless ctx is inside this store's
// transaction, which already holds it.
func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) now() time.Time {
	return s.Now().UTC()
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type snapshot struct {
	users       map[string]user.User
	events      map[string]attendance.TimeEvent
	corrections map[string]correction.Correction
	reports     map[string]report.MonthlyReport
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:       maps.Clone(s.users),
		events:      maps.Clone(s.events),
		corrections: maps.Clone(s.corrections),
		reports:     maps.Clone(s.reports),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.events = snap.events
	s.corrections = snap.corrections
	s.reports = snap.reports
}

type transactor struct {
	store *Store
}

func NewTransactor(s *Store) database.Transactor {
	return &transactor{store: s}
}

// WithinTx implements database.Transactor. It holds the store lock for the
// whole of fn and restores the previous state when fn fails.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s := t.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
