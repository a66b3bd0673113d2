package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resumekit/resumekit-backend/internal/auth/service"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service *service.AuthService
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes mounts the public endpoints on r and the rest behind authenticate
func (h *AuthHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.Delete("/account", h.DeleteAccount)
	})
}

// SignUp handles account registration
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.SignUp(r.Context(), &req, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, response)
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.Login(r.Context(), &req, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, response)
}

// Refresh handles token refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, response)
}

// Logout revokes the session named by the refresh token in the body.
// A missing or unknown token still answers 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Msg("logout without a refresh token")
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Warn().Err(err).Msg("logout error")
	}
	httputil.NoContent(w)
}

// Me returns the current account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Me(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, account)
}

// DeleteAccount removes the current account and all of its data
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context(), httputil.GetUserID(r.Context())); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}
