package middleware

import (
	"net/http"

	"hradmin/internal/transport/http/api"
)

// PolicyStore answers whether a role holds a permission. The static
// table in the auth package satisfies it.
type PolicyStore interface {
	Allows(role, permission string) bool
}

func RequirePermission(permission string, policy PolicyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !policy.Allows(user.Role, permission) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
