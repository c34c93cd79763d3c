// Package media serves entry media uploads. Entries reference an upload by
// the URL returned here; the objects themselves live in MinIO.
package media

import (
	"context"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amolv/contesthub/internal/middleware"
)

// maxUploadSize bounds a single media upload.
const maxUploadSize = 20 << 20 // 20 MiB

// FileStore defines the interface for media object storage.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds the media HTTP handlers.
type Handler struct {
	files  FileStore
	logger *zap.Logger
	dev    bool
}

func NewHandler(files FileStore, logger *zap.Logger, dev bool) *Handler {
	return &Handler{files: files, logger: logger, dev: dev}
}

// Upload handles POST /api/media. It accepts a multipart "file" field and
// returns the URL an entry can carry as its media_url.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.New().String() + filepath.Ext(header.Filename)
	if err := h.files.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		h.logger.Error("media upload", zap.String("key", key), zap.Error(err))
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"url":     "/api/media/" + key,
	})
}

// Download handles GET /api/media/{key}, streaming the stored object.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	data, contentType, err := h.files.Download(r.Context(), key)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "media not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// Delete handles DELETE /api/media/{key}. Admin only: uploads are not
// tracked per user, so removal is an operator action.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil || !user.IsAdmin() {
		middleware.ErrorResponse(w, http.StatusForbidden, "admin access required")
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.files.Remove(r.Context(), key); err != nil {
		h.logger.Error("media delete", zap.String("key", key), zap.Error(err))
		middleware.WriteError(w, err, h.dev)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Media deleted successfully",
	})
}
