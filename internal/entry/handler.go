package entry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/amolv/contesthub/internal/middleware"
	"github.com/amolv/contesthub/internal/models"
)

// Handler holds the entry and vote HTTP handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
	dev     bool
}

func NewHandler(service *Service, logger *zap.Logger, dev bool) *Handler {
	return &Handler{service: service, logger: logger, dev: dev}
}

// Submit handles POST /api/competitions/{id}/entries.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.EntryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.Submit(r.Context(), user, chi.URLParam(r, "id"), &req)
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    e,
	})
}

// ListByCompetition handles GET /api/competitions/{id}/entries.
func (h *Handler) ListByCompetition(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListByCompetition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(entries),
		"data":    entries,
	})
}

// Get handles GET /api/entries/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    e,
	})
}

// Vote handles POST /api/entries/{id}/votes. A repeat vote by the same
// voter is a 200 with accepted=false, not an error.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	entryID := chi.URLParam(r, "id")

	result, err := h.service.CastVote(r.Context(), user, entryID)
	if err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	if result.Accepted {
		h.logger.Info("vote recorded",
			zap.String("entry_id", entryID),
			zap.String("voter_id", user.ID),
		)
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Success:    true,
		Accepted:   result.Accepted,
		TotalVotes: result.TotalVotes,
	})
}

// Approve handles PATCH /api/entries/{id}/approval.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.ApprovalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetApproval(r.Context(), user, chi.URLParam(r, "id"), req.Approved); err != nil {
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Entry approval updated",
	})
}
