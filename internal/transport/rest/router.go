package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/chat-admin/api"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/frahmantamala/chat-admin/internal/transport/middleware"
	"github.com/frahmantamala/chat-admin/internal/transport/swagger"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything mounted by RegisterAllRoutes. Nil handlers are skipped;
// a nil RBAC falls back to the default permission checker.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	User         *user.Handler
	UserInfo     *userinfo.Handler
	Settings     *settings.Handler
	VersionCheck *versioncheck.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, base *transport.BaseHandler, logger *slog.Logger) {
	if h.RBAC == nil {
		h.RBAC = auth.NewRBACAuthorization(auth.NewPermissionChecker(), base)
	}

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(base))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.Spec())
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Settings != nil {
			r.Get("/settings.public", h.Settings.GetPublic)
		}

		if h.Auth == nil {
			return
		}
		r.Post("/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/me", h.User.GetMe)
				pr.Get("/users.info", h.User.GetInfo)
				pr.With(h.RBAC.Require(auth.PermDeleteUser)).Post("/users.delete", h.User.Delete)
				pr.With(h.RBAC.Require(auth.PermEditOtherUserActiveStatus)).Post("/users.setActiveStatus", h.User.SetActiveStatus)
				pr.With(h.RBAC.Require(auth.PermAssignAdminRole)).Post("/users.setAdminStatus", h.User.SetAdminStatus)
			}

			if h.UserInfo != nil {
				pr.With(h.RBAC.Require(auth.PermViewUserAdministration)).Get("/admin/users.panel", h.UserInfo.GetPanel)
			}

			if h.Settings != nil {
				pr.With(h.RBAC.Require(auth.PermEditPrivilegedSetting)).Post("/settings/{key}", h.Settings.SetSetting)
			}

			if h.VersionCheck != nil {
				pr.Route("/admin/version-check", func(vr chi.Router) {
					vr.Use(middleware.RequireAnyPermission(base, auth.PermRunVersionCheck, auth.PermViewUserAdministration))
					vr.Get("/", h.VersionCheck.GetLatest)
					vr.Get("/stream", h.VersionCheck.Stream)
					vr.With(h.RBAC.Require(auth.PermRunVersionCheck)).Post("/run", h.VersionCheck.RunCheck)
				})
				pr.With(h.RBAC.Require(auth.PermRunVersionCheck)).Post("/banners/versionUpdate.dismiss", h.VersionCheck.DismissBanner)
			}
		})
	})
}
