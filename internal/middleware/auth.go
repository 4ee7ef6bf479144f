package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"astrotalk/internal/auth"
	"astrotalk/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityStore resolves a token's user id back to a stored identity.
type IdentityStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

func IdentityFromContext(ctx context.Context) (models.User, bool) {
	identity, ok := ctx.Value(identityKey).(models.User)
	return identity, ok
}

// Rejections carry the same JSON error shape the handlers produce.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Auth verifies the bearer token and re-resolves the embedded user id
// against the store, so deleted identities are rejected even with a valid
// signature. The attached identity never carries the password hash.
func Auth(secret string, users IdentityStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}
			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			identity, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "user not found")
				return
			}
			identity.PasswordHash = ""
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the authenticated identity's role. The
// server-side role column is authoritative; the role claim inside the
// token is a client-side hint only.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if identity.Role != role {
				respondError(w, http.StatusForbidden, "forbidden: wrong role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
