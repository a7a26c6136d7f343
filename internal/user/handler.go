package user

import (
	"context"
	"encoding/json"
	"net/http"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/transport"
)

type ServiceAPI interface {
	Info(ctx context.Context, lookup Lookup, full bool) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, req DeleteRequest) error
	SetActiveStatus(ctx context.Context, req SetActiveStatusRequest) (*User, error)
	SetAdminStatus(ctx context.Context, req SetAdminStatusRequest) (*User, error)
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

// GetInfo handles GET /users.info
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	viewer, ok := errors.ViewerFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.ErrInvalidToken)
		return
	}

	lookup := Lookup{
		UserID:   r.URL.Query().Get("userId"),
		Username: r.URL.Query().Get("username"),
	}
	full := viewer.HasPermission(auth.PermViewFullOtherUserInfo) || viewer.ID == lookup.UserID

	u, err := h.Service.Info(r.Context(), lookup, full)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, InfoResponse{User: u, Success: true})
}

// GetMe handles GET /me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := errors.ViewerFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.ErrInvalidToken)
		return
	}

	u, err := h.Service.GetByID(r.Context(), viewer.ID)
	if err != nil {
		h.Logger.Error("GetMe: failed to load viewer", "user_id", viewer.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, InfoResponse{User: u, Success: true})
}

// Delete handles POST /users.delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.Delete(r.Context(), req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.SuccessResponse{Success: true})
}

// SetActiveStatus handles POST /users.setActiveStatus
func (h *Handler) SetActiveStatus(w http.ResponseWriter, r *http.Request) {
	var req SetActiveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	u, err := h.Service.SetActiveStatus(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, StatusResponse{User: u.WithoutEmails(), Success: true})
}

// SetAdminStatus handles POST /users.setAdminStatus
func (h *Handler) SetAdminStatus(w http.ResponseWriter, r *http.Request) {
	var req SetAdminStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	u, err := h.Service.SetAdminStatus(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, StatusResponse{User: u.WithoutEmails(), Success: true})
}
