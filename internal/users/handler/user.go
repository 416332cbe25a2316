package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fleetbook/internal/users/service"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/model"
)

// UserHandler serves the unauthenticated auth endpoints. All other API
// routes sit behind the bearer-token middleware.
type UserHandler struct {
	cfg     *config.Config
	service service.UserService
}

func NewUserHandler(cfg *config.Config, svc service.UserService) *UserHandler {
	return &UserHandler{
		cfg:     cfg,
		service: svc,
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users/register", h.Register)
	router.POST("/api/v1/users/login", h.Login)
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}

	user, err := h.service.Register(r.Context(), &creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}

	token, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, token); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Request failed", "path", r.URL.Path, "error", appErr)
	}
	if err := httputil.WriteError(w, appErr); err != nil {
		h.cfg.Log.Error("Failed to write error response", "error", err)
	}
}
