package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fleetbook/internal/bookings/service"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/model"
)

type BookingHandler struct {
	cfg     *config.Config
	service service.BookingService
}

func NewBookingHandler(cfg *config.Config, svc service.BookingService) *BookingHandler {
	return &BookingHandler{
		cfg:     cfg,
		service: svc,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/vehicles/available", h.ListAvailable)

	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/mine", h.ListMine)
	router.GET("/api/v1/bookings/pending", auth.RequireAdmin(h.ListPending))
	router.GET("/api/v1/bookings/active", auth.RequireAdmin(h.ListActive))
	router.GET("/api/v1/bookings/history", auth.RequireAdmin(h.ListHistory))
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/decision", auth.RequireAdmin(h.Decide))
	router.POST("/api/v1/bookings/id/:id/collect", auth.RequireAdmin(h.MarkCollected))
	router.POST("/api/v1/bookings/id/:id/return", auth.RequireAdmin(h.MarkReturned))
}

// ListAvailable returns the active vehicles free for the requested
// window, passed as start_time/end_time RFC3339 query parameters.
func (h *BookingHandler) ListAvailable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, end, err := httputil.ExtractWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vehicles, err := h.service.ListAvailable(r.Context(), start, end)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, vehicles); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("missing actor context"))
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}

	booking, err := h.service.Create(r.Context(), actor.Username, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

// ListMine returns the requesting actor's bookings across all states,
// the user dashboard view.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("missing actor context"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bookings, total, err := h.service.ListForUser(r.Context(), actor.Username, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) ListPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, h.service.ListPending)
}

// ListActive returns approved bookings whose vehicle is still out.
func (h *BookingHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, h.service.ListActive)
}

func (h *BookingHandler) ListHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, h.service.ListHistory)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bookings, total, err := fetch(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperrors.Unauthorized("missing actor context"))
		return
	}

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if !actor.IsAdmin && booking.Username != actor.Username {
		h.writeError(w, r, apperrors.Forbidden("cannot view another user's booking"))
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Decide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	if req.Decision != model.DecisionApprove && req.Decision != model.DecisionDeny {
		h.writeError(w, r, apperrors.InvalidInput("decision must be 'approved' or 'denied'"))
		return
	}

	booking, err := h.service.Decide(r.Context(), ps.ByName("id"), req.Decision)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) MarkCollected(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.MarkCollected(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) MarkReturned(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.MarkReturned(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Request failed", "path", r.URL.Path, "error", appErr)
	}
	if err := httputil.WriteError(w, appErr); err != nil {
		h.cfg.Log.Error("Failed to write error response", "error", err)
	}
}
