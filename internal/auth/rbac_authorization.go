package auth

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/transport"
)

type PermissionAuthorizer interface {
	HasPermissionCtx(ctx context.Context, userPermissions []string, permission string) (bool, error)
}

type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, baseHandler *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: baseHandler,
		authorizer:  authorizer,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := errors.ViewerFromContext(r.Context())
		if !ok {
			ra.Logger.Warn("authorization check failed: viewer not found in context")
			ra.HandleError(w, errors.NewUnauthorizedError("unauthorized", errors.ErrCodeInvalidToken))
			return
		}

		hasAccess, err := ra.authorizer.HasPermissionCtx(r.Context(), viewer.Permissions, permission)
		if err != nil {
			ra.Logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", viewer.ID, "permission", permission)
			ra.HandleError(w, errors.NewInternalError("authorization check failed", err))
			return
		}

		if !hasAccess {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", viewer.ID,
				"required_permission", permission)
			ra.HandleError(w, errors.NewForbiddenError("insufficient permissions: "+permission, errors.ErrCodeInsufficientPerms))
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Require is the chi middleware form of Check.
func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, permission)
	}
}
