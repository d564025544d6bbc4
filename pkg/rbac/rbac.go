// Package rbac gates routes on the role stored for the authenticated user.
// The role is read from storage on every request; token claims are never
// trusted for authorization.
package rbac

import (
	"context"
	"net/http"

	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/response"
)

// RoleAdmin is the role RequireAdmin checks for.
const RoleAdmin = "admin"

// RoleFunc returns the stored role for email, or "" when no such user
// exists.
type RoleFunc func(ctx context.Context, email string) (string, error)

// HasRole allows the request through only when the caller's stored role is
// one of roles. It must run after middleware.Auth.
func HasRole(lookup RoleFunc, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.FromContext(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}

			role, err := lookup(r.Context(), claims.Email)
			if err != nil {
				logger.WithCtx(r.Context()).Error("rbac: role lookup failed", "email", claims.Email, "error", err)
				response.InternalError(w)
				return
			}
			if !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is HasRole(lookup, RoleAdmin).
func RequireAdmin(lookup RoleFunc) func(http.Handler) http.Handler {
	return HasRole(lookup, RoleAdmin)
}
