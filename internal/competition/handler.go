package competition

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/amolv/contesthub/internal/middleware"
	"github.com/amolv/contesthub/internal/models"
)

// Handler holds the competition HTTP handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
	dev     bool
}

func NewHandler(service *Service, logger *zap.Logger, dev bool) *Handler {
	return &Handler{service: service, logger: logger, dev: dev}
}

// Create handles POST /api/competitions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.CompetitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.service.Create(r.Context(), user, &req)
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// List handles GET /api/competitions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	comps, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list competitions", zap.Error(err))
		middleware.WriteError(w, err, h.dev)
		return
	}
	if comps == nil {
		comps = []models.Competition{}
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(comps),
		"data":    comps,
	})
}

// Get handles GET /api/competitions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// Update handles PUT /api/competitions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var patch models.CompetitionPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.service.Update(r.Context(), user, chi.URLParam(r, "id"), &patch)
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// Delete handles DELETE /api/competitions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := h.service.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Competition deleted successfully",
	})
}
