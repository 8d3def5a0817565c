package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	defer r.store.write(ctx)()

	for _, u := range r.store.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		id, err := newID()
		if err != nil {
			return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
		}
		newUser.ID = id
	}
	now := r.store.now()
	if newUser.CreatedAt.IsZero() {
		newUser.CreatedAt = now
	}
	newUser.UpdatedAt = now
	r.store.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	defer r.store.read(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	defer r.store.read(ctx)()

	out := make([]user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
