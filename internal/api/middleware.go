/**
 * @description
 * Authentication and role middleware. A bearer token is resolved into a
 * `domain.Principal` which is stored on the request context for handlers.
 *
 * @dependencies
 * - internal/domain: Principal and Role types.
 */

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/transfa/returns-service/internal/domain"
)

// TokenVerifier resolves a bearer credential into a principal.
type TokenVerifier interface {
	Verify(raw string) (domain.Principal, error)
}

type principalContextKey struct{}

func withPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext returns the authenticated caller attached by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(domain.Principal)
	return principal, ok
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				writeErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, "Authorization token is missing")
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == authHeader || tokenString == "" {
				writeErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, "Invalid Authorization header format")
				return
			}

			principal, err := verifier.Verify(tokenString)
			if err != nil {
				writeErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole lets through only principals holding role. It must run after AuthMiddleware.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, "Authentication required")
				return
			}
			if principal.Role != role {
				writeErrorCode(w, http.StatusForbidden, codeForbidden, string(role)+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
