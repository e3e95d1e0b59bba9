package auth

import "context"

type contextKey string

const actorKey contextKey = "actor"

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated actor stored by the auth middleware,
// or nil when the request was not authenticated.
func ActorFrom(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey).(*Actor)
	return actor
}
