package middleware

import (
	"context"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

type actorKey struct{}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller resolved by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	if !ok {
		return user.Actor{}, user.ErrInvalidToken
	}
	return actor, nil
}

func actorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, user.ErrInvalidToken
	}
	// A missing is_admin claim means a regular worker
	isAdmin, _ := claims["is_admin"].(bool)
	return user.Actor{UserID: userID, IsAdmin: isAdmin}, nil
}
