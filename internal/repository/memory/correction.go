package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/correction"
)

type correctionRepository struct {
	store *Store
}

func NewCorrectionRepository(s *Store) correction.CorrectionRepository {
	return &correctionRepository{store: s}
}

func (r *correctionRepository) Create(ctx context.Context, c correction.Correction) (correction.Correction, error) {
	defer r.store.write(ctx)()

	if c.ID == "" {
		id, err := newID()
		if err != nil {
			return correction.Correction{}, fmt.Errorf("failed to generate correction id: %w", err)
		}
		c.ID = id
	}
	c.CreatedAt = r.store.now()
	r.store.corrections[c.ID] = c
	return c, nil
}

func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.Correction, error) {
	defer r.store.read(ctx)()

	c, ok := r.store.corrections[id]
	if !ok {
		return correction.Correction{}, correction.ErrCorrectionNotFound
	}
	return c, nil
}

func (r *correctionRepository) ListByEventIDs(ctx context.Context, eventIDs []string) ([]correction.Correction, error) {
	defer r.store.read(ctx)()

	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}

	var out []correction.Correction
	for _, c := range r.store.corrections {
		if wanted[c.EventID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].AppliedAt(), out[j].AppliedAt()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *correctionRepository) ListPending(ctx context.Context) ([]correction.Correction, error) {
	defer r.store.read(ctx)()

	var out []correction.Correction
	for _, c := range r.store.corrections {
		if c.IsPending() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *correctionRepository) Review(ctx context.Context, c correction.Correction) error {
	defer r.store.write(ctx)()

	stored, ok := r.store.corrections[c.ID]
	if !ok {
		return correction.ErrCorrectionNotFound
	}
	if !stored.IsPending() {
		return correction.ErrCorrectionAlreadyReviewed
	}
	stored.Status = c.Status
	stored.AdminID = c.AdminID
	stored.PreviousValue = c.PreviousValue
	stored.ReviewedBy = c.ReviewedBy
	stored.ReviewedAt = c.ReviewedAt
	stored.ReviewNote = c.ReviewNote
	r.store.corrections[c.ID] = stored
	return nil
}
