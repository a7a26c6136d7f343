package settings

import (
	"context"
	"encoding/json"
	"net/http"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Snapshot() Snapshot
	Set(ctx context.Context, key string, value interface{}) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

type SetSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// GetPublic handles GET /settings.public
func (h *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, PublicSettingsResponse{
		Settings: h.Service.Snapshot(),
		Success:  true,
	})
}

// SetSetting handles POST /settings/{key}
func (h *Handler) SetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Value) == 0 {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.Set(r.Context(), key, req.Value); err != nil {
		h.Logger.Error("SetSetting: failed to update setting", "key", key, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.SuccessResponse{Success: true})
}

type PublicSettingsResponse struct {
	Settings Snapshot `json:"settings"`
	Success  bool     `json:"success"`
}
