package middleware

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	actorKey          = contextKey("actor")
	idempotencyKeyKey = contextKey("idempotencyKey")
)

// WithActor returns a copy of ctx carrying the authenticated actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx retrieves the authenticated actor from a standard context.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	if v, exists := c.Get(string(actorKey)); exists {
		if actor, ok := v.(domain.Actor); ok {
			return actor, true
		}
	}
	return ActorFromCtx(c.Request.Context())
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	actor, ok := GetActorFromContext(c)
	if !ok || actor.UserID == "" {
		return "", false
	}
	return actor.UserID, true
}

// GetIdempotencyKey returns the client idempotency key of the request, if any.
func GetIdempotencyKey(c *gin.Context) string {
	if v, exists := c.Get(string(idempotencyKeyKey)); exists {
		if key, ok := v.(string); ok {
			return key
		}
	}
	return c.GetHeader(IdempotencyHeader)
}
