package middleware

import (
	"context"
	"net/http"
	"strings"

	"docvault/internal/domain/models"
	"docvault/internal/httputil"
)

// TokenResolver resolves a bearer token to the acting user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// publicPaths are reachable without a token.
var publicPaths = map[string]bool{
	"/health":     true,
	"/metrics":    true,
	"/auth/login": true,
	"/auth/token": true,
}

// Auth extracts the bearer token, resolves it to an actor and stores the
// actor in the request context. Requests to public paths pass through.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			actor, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}

			next.ServeHTTP(w, httputil.WithActor(r, actor))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
