package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/storefront-server/token"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/pkg/errors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

const bearerPrefix = "Bearer "

// ClaimsFromContext returns the claims RequireAuth stored on the request.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok && claims != nil
}

// RequireAuth is middleware that validates a Bearer access token and stores its
// claims on the request context.
func (s *Server) RequireAuth() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeMessage(w, http.StatusUnauthorized, msgNoToken)
				return
			}

			claims, err := s.services.Auth.Authenticate(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				s.metrics.authFailures.WithLabelValues(authFailureReason(err)).Inc()
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRoles only lets principals holding one of the given roles through.
// It must run after RequireAuth.
func (s *Server) RequireRoles(roles ...users.Role) Middleware {
	denied := msgAccessDenied
	if len(roles) == 1 && roles[0] == users.RoleSuperAdmin {
		denied = msgSuperAdminOnly
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, msgNotAuthed)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next(w, r)
					return
				}
			}
			s.metrics.authFailures.WithLabelValues("forbidden").Inc()
			writeMessage(w, http.StatusForbidden, denied)
		}
	}
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return "expired"
	case errors.Is(err, token.ErrInvalidTokenType):
		return "wrong_type"
	default:
		return "invalid"
	}
}
