package auth

import (
	"context"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
)

type contextKey string

const actorKey contextKey = "fitness-tracker-actor"

// WithActor stores the authenticated actor on the context.
func WithActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext retrieves the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (access.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(access.Actor)
	return actor, ok
}
