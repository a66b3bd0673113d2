package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resumekit/resumekit-backend/internal/profile/domain"
	"github.com/resumekit/resumekit-backend/internal/profile/service"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc *service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: log}
}

// RegisterRoutes mounts the profile endpoints on r
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.svc.Get(ctx, httputil.GetUserID(ctx), httputil.GetUserEmail(ctx))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	ctx := r.Context()
	profile, err := h.svc.Update(ctx, httputil.GetUserID(ctx), httputil.GetUserEmail(ctx), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, profile)
}
