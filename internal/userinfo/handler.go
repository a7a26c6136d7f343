package userinfo

import (
	"net/http"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Users    UserService
	Settings SettingsSource
}

func NewHandler(baseHandler *transport.BaseHandler, users UserService, settings SettingsSource) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Users:       users,
		Settings:    settings,
	}
}

type PanelResponse struct {
	View    View `json:"view"`
	Success bool `json:"success"`
}

// GetPanel handles GET /admin/users.panel
func (h *Handler) GetPanel(w http.ResponseWriter, r *http.Request) {
	viewer, ok := errors.ViewerFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.ErrInvalidToken)
		return
	}

	lookup := user.Lookup{
		UserID:   r.URL.Query().Get("userId"),
		Username: r.URL.Query().Get("username"),
	}
	if err := lookup.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	full := viewer.HasPermission(auth.PermViewFullOtherUserInfo) || viewer.ID == lookup.UserID
	panel := NewPanel(PanelConfig{
		Lookup:      lookup,
		Permissions: viewer.Permissions,
		Endpoints:   NewServiceEndpoints(h.Users, full),
		Settings:    h.Settings,
		Translator:  NewTranslator(r.Header.Get("Accept-Language")),
		Logger:      logger.From(r.Context()),
	})
	view := panel.Mount(r.Context())
	panel.Unmount()

	if view.State != StateLoaded {
		h.WriteJSON(w, http.StatusNotFound, PanelResponse{View: view, Success: false})
		return
	}
	h.WriteJSON(w, http.StatusOK, PanelResponse{View: view, Success: true})
}
