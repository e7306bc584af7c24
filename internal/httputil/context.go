package httputil

import (
	"context"
	"net/http"

	"docvault/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const actorKey contextKey = "actor"

// WithActor stores the authenticated actor in the request context.
func WithActor(r *http.Request, actor *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), actorKey, actor)
	return r.WithContext(ctx)
}

// ActorFrom retrieves the authenticated actor from the context, or nil if
// the request was not authenticated.
func ActorFrom(r *http.Request) *models.User {
	actor, _ := r.Context().Value(actorKey).(*models.User)
	return actor
}
