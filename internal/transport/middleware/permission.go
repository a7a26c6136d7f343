package middleware

import (
	"net/http"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/transport"
)

// RequireAnyPermission lets the request through when the viewer holds at least one of permissions.
func RequireAnyPermission(base *transport.BaseHandler, permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := errors.ViewerFromContext(r.Context())
			if !ok {
				base.HandleError(w, errors.NewUnauthorizedError("unauthorized", errors.ErrCodeInvalidToken))
				return
			}

			for _, required := range permissions {
				if viewer.HasPermission(required) {
					next.ServeHTTP(w, r)
					return
				}
			}

			base.Logger.WarnContext(r.Context(), "access denied: viewer lacks required permissions",
				"user_id", viewer.ID,
				"required_permissions", permissions)
			base.HandleError(w, errors.NewForbiddenError("insufficient permissions", errors.ErrCodeInsufficientPerms))
		})
	}
}
