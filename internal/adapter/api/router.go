package api

import (
	"log/slog"
	"net/http"

	"github.com/user/roadwatch/internal/adapter/api/handler"
)

// NewRouter creates and configures the main HTTP router for the dashboard
// service. Path patterns (e.g. "/get-image/{filename}") require Go 1.22+.
func NewRouter(
	dashboardHandler *handler.DashboardHandler,
	uploadHandler *handler.UploadHandler,
	imageHandler *handler.ImageHandler,
	sseBroker *handler.SSEBroker,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Dashboard surface
	mux.HandleFunc("GET /api/images", dashboardHandler.Gallery)
	mux.HandleFunc("GET /api/stats", dashboardHandler.Stats)
	mux.HandleFunc("GET /api/export", dashboardHandler.Export)
	mux.HandleFunc("POST /api/refresh", dashboardHandler.Refresh)
	mux.HandleFunc("POST /api/reset", dashboardHandler.ResetFilters)
	mux.Handle("GET /api/events", sseBroker)

	// Device backend surface
	mux.Handle("POST /upload-image/", uploadHandler)
	mux.HandleFunc("GET /list-images/", imageHandler.ListImages)
	mux.HandleFunc("GET /get-image/{filename}", imageHandler.GetImage)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
