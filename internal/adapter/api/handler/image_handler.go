package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/user/roadwatch/internal/domain"
)

// ImageHandler serves stored image bytes and the raw record listing. Together
// with the upload handler it makes the service a complete device backend.
type ImageHandler struct {
	store  domain.ImageSource
	dir    string
	logger *slog.Logger
}

// NewImageHandler creates a new ImageHandler serving files from dir.
func NewImageHandler(store domain.ImageSource, dir string, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		store:  store,
		dir:    dir,
		logger: logger,
	}
}

// GetImage serves the bytes of one stored image by filename.
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, filename))
}

// ListImages serves the complete record listing as JSON.
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListImages(r.Context())
	if err != nil {
		h.logger.Error("failed to list images", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.ImageRecord{}
	}
	writeJSON(w, h.logger, domain.ImageListing{Images: records})
}
