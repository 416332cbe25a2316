package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fleetbook/internal/vehicles/service"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/model"
)

type VehicleHandler struct {
	cfg     *config.Config
	service service.VehicleService
}

func NewVehicleHandler(cfg *config.Config, svc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		cfg:     cfg,
		service: svc,
	}
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/vehicles", h.List)
	router.GET("/api/v1/vehicles/id/:id", h.GetByID)
	router.POST("/api/v1/vehicles", auth.RequireAdmin(h.Create))
	router.PATCH("/api/v1/vehicles/id/:id", auth.RequireAdmin(h.Update))
	router.DELETE("/api/v1/vehicles/id/:id", auth.RequireAdmin(h.Delete))
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var vehicle model.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}

	created, err := h.service.Create(r.Context(), &vehicle)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vehicles, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WritePaginated(w, vehicles, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vehicle, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, vehicle); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

// Update renames a vehicle or toggles its active flag. Disabling keeps
// existing bookings intact but withdraws the vehicle from availability.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.VehicleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}

	vehicle, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, vehicle); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *VehicleHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Request failed", "path", r.URL.Path, "error", appErr)
	}
	if err := httputil.WriteError(w, appErr); err != nil {
		h.cfg.Log.Error("Failed to write error response", "error", err)
	}
}
