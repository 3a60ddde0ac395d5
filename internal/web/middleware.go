package web

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/matchmyvibe/backend/internal/identity"
)

type contextKey int

const userContextKey contextKey = iota

// AuthUser is the resolved identity attached to an authenticated request.
// ProfileID is the only key the handlers ever scope queries by.
type AuthUser struct {
	User      *identity.User
	ProfileID uuid.UUID
}

// RequireAuth returns middleware that resolves the bearer credential and
// injects the identity into the request context. Missing tokens and every
// resolution failure map to 401; only post-resolution data-plane failures
// are 500s.
func RequireAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				log.Printf("resolving token: %v", err)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			profileID, err := uuid.Parse(user.ID)
			if err != nil {
				log.Printf("parsing user id %q: %v", user.ID, err)
				writeError(w, http.StatusUnauthorized, identity.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, &AuthUser{
				User:      user,
				ProfileID: profileID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user set by RequireAuth.
func UserFromContext(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(userContextKey).(*AuthUser)
	return user, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns the empty string when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}
