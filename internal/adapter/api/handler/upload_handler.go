package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/user/roadwatch/internal/adapter/exifmeta"
	"github.com/user/roadwatch/internal/adapter/metrics"
	"github.com/user/roadwatch/internal/domain"
	"github.com/user/roadwatch/internal/usecase"
)

const maxUploadBytes = 32 << 20 // 32MB

// UploadHandler accepts device image uploads, stores the bytes on disk,
// extracts the embedded annotations and registers the record in the store.
type UploadHandler struct {
	store     domain.ImageRepository
	dashboard *usecase.Dashboard
	broker    *SSEBroker
	uploadDir string
	metrics   *metrics.EngineMetrics
	logger    *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store domain.ImageRepository, dashboard *usecase.Dashboard, broker *SSEBroker, uploadDir string, m *metrics.EngineMetrics, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		store:     store,
		dashboard: dashboard,
		broker:    broker,
		uploadDir: uploadDir,
		metrics:   m,
		logger:    logger,
	}
}

// ServeHTTP processes a multipart image upload.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		h.metrics.UploadsTotal.WithLabelValues("error_media_type").Inc()
		http.Error(w, "Unsupported media type", http.StatusUnsupportedMediaType)
		return
	}

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	path, err := h.saveUpload(file, filename)
	if err != nil {
		h.metrics.UploadsTotal.WithLabelValues("error_write").Inc()
		h.logger.Error("failed to store uploaded image", "error", err, "filename", filename)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	record := domain.ImageRecord{
		Filename: filename,
		Metadata: h.extractMetadata(path),
	}
	if err := h.store.UpsertImages(r.Context(), []domain.ImageRecord{record}); err != nil {
		h.metrics.UploadsTotal.WithLabelValues("error_store").Inc()
		h.logger.Error("failed to register uploaded record", "error", err, "filename", filename)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	h.logger.Info("image uploaded", "filename", filename, "has_metadata", record.Metadata != nil)

	// Fold the new record into the dashboard snapshot and notify clients.
	if err := h.dashboard.Refresh(r.Context()); err == nil {
		view := h.dashboard.View()
		h.broker.ReportSnapshot(view.Version, view.Stats.TotalImages)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "{\"filename\":%q}\n", filename)
}

// saveUpload writes the body to a temp file and renames it into place, so a
// partial write never leaves a half-visible image behind.
func (h *UploadHandler) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	tmpPath := filepath.Join(h.uploadDir, ".staging-"+uuid.NewString())
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close staging file: %w", err)
	}

	path := filepath.Join(h.uploadDir, filename)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("publish uploaded file: %w", err)
	}
	return path, nil
}

func (h *UploadHandler) extractMetadata(path string) *domain.ImageMetadata {
	f, err := os.Open(path)
	if err != nil {
		h.logger.Warn("cannot reopen upload for metadata extraction", "error", err)
		return nil
	}
	defer f.Close()
	return exifmeta.Extract(f)
}
