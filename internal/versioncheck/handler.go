package versioncheck

import (
	"context"
	"net/http"

	"github.com/frahmantamala/chat-admin/internal/transport"
)

type ServiceAPI interface {
	Check(ctx context.Context) (*Result, error)
	Latest(ctx context.Context) (*Result, error)
	DismissBanner(ctx context.Context) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Hub     *Hub
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, hub *Hub) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Hub:         hub,
	}
}

type ResultResponse struct {
	Result     *Result `json:"result"`
	ShowBanner bool    `json:"showBanner"`
	Success    bool    `json:"success"`
}

// GetLatest handles GET /admin/version-check
func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Latest(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ResultResponse{Result: result, ShowBanner: result.ShowBanner(), Success: true})
}

// RunCheck handles POST /admin/version-check/run
func (h *Handler) RunCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Check(r.Context())
	if err != nil {
		h.Logger.Error("RunCheck: manual version check failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ResultResponse{Result: result, ShowBanner: result.ShowBanner(), Success: true})
}

// DismissBanner handles POST /banners/versionUpdate.dismiss
func (h *Handler) DismissBanner(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DismissBanner(r.Context()); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.SuccessResponse{Success: true})
}

// Stream handles GET /admin/version-check/stream
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r)
}
