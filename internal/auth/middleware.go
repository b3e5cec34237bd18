package auth

import (
	"context"
	"net/http"
	"strings"

	"pressgate/internal/httpx"
)

type contextKey string

const identityContextKey contextKey = "pressgate_identity"

// Identity is what a verified token proves about the caller. It is a copy
// of the token claims, not a store lookup; handlers that need the live
// record fetch it themselves.
type Identity struct {
	AccountID string
	Username  string
	Role      Role
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}

// Middleware verifies the bearer token on protected routes and attaches the
// caller's identity to the request context. The Authorization header must
// split into exactly two space-separated parts; the second is the token.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				httpx.Error(w, http.StatusUnauthorized, "Missing token")
				return
			}
			parts := strings.Split(h, " ")
			if len(parts) != 2 {
				httpx.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			claims, err := tokens.Parse(parts[1])
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			id := &Identity{
				AccountID: claims.AccountID,
				Username:  claims.Username,
				Role:      claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole gates a handler on the caller's role. It assumes Middleware
// already ran; a missing identity is treated as unauthenticated.
func RequireRole(next http.Handler, roles ...Role) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "Missing token")
			return
		}
		if _, ok := allowed[id.Role]; !ok {
			httpx.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(next, RoleAdmin)
}
