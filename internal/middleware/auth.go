package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"amora-be/internal/auth"
	"amora-be/internal/domain"
	"amora-be/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// Auth verifies every request through the credential cascade and places
// the resolved user in the request context. Requests that fail every
// strategy get a 401 with the cascade's diagnostic message.
func Auth(cascade *auth.Cascade, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := cascade.Verify(r.Context(), r.Header)
			if result.Err != nil {
				log.WithFields(map[string]interface{}{
					"path":   r.URL.Path,
					"method": r.Method,
					"reason": string(result.Err.Type),
				}).Warn("Request authentication failed")
				writeAuthError(w, result.Err.StatusCode, result.Err.Message)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, result.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by Auth
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// ContextWithUser injects a user into ctx, for handler tests
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func writeAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
