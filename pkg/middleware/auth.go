// Package middleware holds the HTTP middleware shared by every route:
// panic recovery, request ids, request logging, CORS and bearer-token auth.
package middleware

import (
	"net/http"
	"strings"

	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/response"
)

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid "Authorization: Bearer <token>"
// header with 401 and otherwise stores the decoded claims in the request
// context (read them back with auth.FromContext).
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Unauthorized(w)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
