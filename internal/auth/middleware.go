package auth

import (
	"log/slog"
	"net/http"

	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
)

// SessionMiddleware resolves the session cookie into a Principal and stores
// it in the request context. A store failure aborts the request with 500.
func SessionMiddleware(sm *SessionManager, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := sm.Load(r.Context(), r)
			if err != nil {
				logger.Error("failed to load session",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				pkghttp.WriteInternalError(w, "Session store unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireUser rejects requests whose principal is not a user
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetPrincipal(r).IsUser() {
			pkghttp.WriteUnauthorized(w, "User authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose principal is not an admin
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetPrincipal(r).IsAdmin() {
			pkghttp.WriteUnauthorized(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
