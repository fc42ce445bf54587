package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/PatrickVM/in-house-open-sub001/internal/security"
)

type contextKey string

const callerIDKey contextKey = "caller_id"

// CallerID extracts the authenticated user id placed by AuthMiddleware.
func CallerID(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(callerIDKey).(int32)
	return id, ok
}

// AuthMiddleware validates the bearer access token issued by the platform's
// auth service and attaches the caller id to the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Reason: "missing bearer token"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Reason: err.Error()})
				return
			}
			ctx := context.WithValue(r.Context(), callerIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperationalAuthMiddleware guards operator endpoints with the shared-secret
// token carried in X-Operational-Token. These calls are made by schedulers
// and admin tooling, not user sessions.
func OperationalAuthMiddleware(verifier *security.OperationalTokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := verifier.Verify(r.Header.Get("X-Operational-Token")); err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Reason: "operational token rejected"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
