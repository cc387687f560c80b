package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
)

// RequirePermission guards a route behind a single permission name. The
// checker resolves every ambiguous case to deny, so the middleware only
// distinguishes "no identity" from "identity without the permission".
func RequirePermission(checker permissions.Checker, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := auth.IdentityFromContext(r.Context())
			if !ok || !ident.Resolved() {
				writeDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !checker.HasPermission(r.Context(), ident, name) {
				slog.Warn("access denied",
					"user_id", ident.UserID,
					"permission", name,
					"path", r.URL.Path)
				writeDenied(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission guards a route behind a list of alternatives; one
// satisfied name is enough.
func RequireAnyPermission(checker permissions.Checker, names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := auth.IdentityFromContext(r.Context())
			if !ok || !ident.Resolved() {
				writeDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !checker.HasAny(r.Context(), ident, names...) {
				slog.Warn("access denied",
					"user_id", ident.UserID,
					"permissions", names,
					"path", r.URL.Path)
				writeDenied(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
