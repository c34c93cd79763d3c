package auth

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/middleware"
	"github.com/amolv/contesthub/internal/models"
)

// Handler holds the credential HTTP handlers.
type Handler struct {
	service *Service
	limiter *RateLimiter
	logger  *zap.Logger
	dev     bool
}

func NewHandler(service *Service, limiter *RateLimiter, logger *zap.Logger, dev bool) *Handler {
	return &Handler{service: service, limiter: limiter, logger: logger, dev: dev}
}

// Register creates a new user and returns it with a fresh token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r) {
		middleware.WriteError(w, apperr.ErrRateLimited, h.dev)
		return
	}

	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// Login authenticates a user and returns a fresh token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r) {
		middleware.WriteError(w, apperr.ErrRateLimited, h.dev)
		return
	}

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		middleware.WriteError(w, apperr.ErrUnauthenticated, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// allow consults the rate limiter for the client address. Limiter
// outages fail open.
func (h *Handler) allow(r *http.Request) bool {
	if h.limiter == nil {
		return true
	}
	key := r.RemoteAddr
	if host, _, err := net.SplitHostPort(key); err == nil {
		key = host
	}
	ok, err := h.limiter.Allow(r.Context(), key)
	if err != nil {
		h.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	return ok
}
