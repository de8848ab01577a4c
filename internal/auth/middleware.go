package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	u "github.com/rahulnair/bank-backoffice/internal/utils"
)

type contextKey struct{}

var callerKey contextKey

// Middleware verifies the Authorization header and stores the resolved
// Caller in the request context. Requests without a valid token get a 401.
func Middleware(tokens *TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				u.WriteError(w, http.StatusUnauthorized, "missing authorization header", "")
				return
			}

			caller, err := tokens.Verify(header)
			if err != nil {
				u.WriteError(w, http.StatusUnauthorized, "invalid or expired token", "")
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext retrieves the authenticated caller set by Middleware.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	return caller, ok
}

// ContextWithCaller is used by tests to inject a caller directly.
func ContextWithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}
