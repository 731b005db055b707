package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/user/roadwatch/internal/adapter/location"
	"github.com/user/roadwatch/internal/adapter/metrics"
	"github.com/user/roadwatch/internal/adapter/timestamp"
	"github.com/user/roadwatch/internal/domain"
	"github.com/user/roadwatch/internal/usecase"
)

// ImageURLBuilder resolves a stored filename to the URL serving its bytes.
type ImageURLBuilder interface {
	ImageURL(filename string) string
}

// galleryItem is the presentation form of one record on a gallery page.
type galleryItem struct {
	Filename   string               `json:"filename"`
	URL        string               `json:"url"`
	CapturedAt string               `json:"capturedAt"`
	Date       string               `json:"date,omitempty"`
	Prediction string               `json:"prediction,omitempty"`
	Coordinate *location.Coordinate `json:"coordinate,omitempty"`
}

type galleryResponse struct {
	Images     []galleryItem         `json:"images"`
	Page       domain.PageState      `json:"page"`
	PageWindow []int                 `json:"pageWindow"`
	Criteria   domain.FilterCriteria `json:"criteria"`
	Version    uint64                `json:"version"`
}

type statsResponse struct {
	Stats   domain.StatsSnapshot `json:"stats"`
	Charts  domain.ChartData     `json:"charts"`
	Version uint64               `json:"version"`
}

type refreshResponse struct {
	TotalImages int    `json:"totalImages"`
	Version     uint64 `json:"version"`
}

// DashboardHandler exposes the dashboard controller over HTTP: gallery pages,
// statistics, CSV export and refresh.
type DashboardHandler struct {
	dashboard *usecase.Dashboard
	urls      ImageURLBuilder
	broker    *SSEBroker
	metrics   *metrics.EngineMetrics
	logger    *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *usecase.Dashboard, urls ImageURLBuilder, broker *SSEBroker, m *metrics.EngineMetrics, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		urls:      urls,
		broker:    broker,
		metrics:   m,
		logger:    logger,
	}
}

// Gallery serves one page of the sorted, filtered gallery. Filter and page
// parameters present in the query are applied as dashboard events first.
func (h *DashboardHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	h.applyCriteria(r)

	if page := r.URL.Query().Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil {
			h.dashboard.SetPage(n)
		}
	}

	view := h.dashboard.View()

	items := make([]galleryItem, 0, len(view.Page))
	for _, rec := range view.Page {
		decoded, _ := timestamp.Decode(rec.Filename)
		items = append(items, galleryItem{
			Filename:   rec.Filename,
			URL:        h.urls.ImageURL(rec.Filename),
			CapturedAt: decoded.Display,
			Date:       timestamp.ISODate(decoded.Display),
			Prediction: rec.PredictionLabel(),
			Coordinate: location.Parse(rec.LocationString()),
		})
	}

	writeJSON(w, h.logger, galleryResponse{
		Images:     items,
		Page:       view.PageState,
		PageWindow: view.PageWindow,
		Criteria:   view.Criteria,
		Version:    view.Version,
	})
}

// Stats serves the aggregate statistics and chart datasets for the current
// filtered set.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.applyCriteria(r)
	view := h.dashboard.View()

	h.metrics.SnapshotRecords.Set(float64(view.Stats.TotalImages))
	writeJSON(w, h.logger, statsResponse{
		Stats:   view.Stats,
		Charts:  view.Charts,
		Version: view.Version,
	})
}

// Export serves the current filtered set as CSV. With ?format=uri the
// response is a JSON artifact carrying the text and a data URI instead.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	artifact := h.dashboard.Export(time.Now())
	h.metrics.ExportsTotal.Inc()

	if r.URL.Query().Get("format") == "uri" {
		writeJSON(w, h.logger, artifact)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	if _, err := w.Write([]byte(artifact.Text)); err != nil {
		h.logger.Error("failed to write export response", "error", err)
	}
}

// Refresh re-fetches the record listing from the source and replaces the raw
// set. A source failure keeps the previous snapshot and returns 502.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Refresh(r.Context()); err != nil {
		h.metrics.RefreshesTotal.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrFetchFailed) {
			http.Error(w, "Upstream source unavailable", http.StatusBadGateway)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	view := h.dashboard.View()
	h.metrics.DerivationSeconds.Observe(time.Since(start).Seconds())
	h.metrics.RefreshesTotal.WithLabelValues("ok").Inc()
	h.metrics.SnapshotRecords.Set(float64(view.Stats.TotalImages))

	h.broker.ReportSnapshot(view.Version, view.Stats.TotalImages)
	writeJSON(w, h.logger, refreshResponse{
		TotalImages: view.Stats.TotalImages,
		Version:     view.Version,
	})
}

// ResetFilters restores the default criteria and serves the resulting view.
func (h *DashboardHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.dashboard.ResetFilters()
	h.Gallery(w, r)
}

func (h *DashboardHandler) applyCriteria(r *http.Request) {
	query := r.URL.Query()
	if query.Has("start") || query.Has("end") {
		h.dashboard.SetDateRange(domain.DateRange{
			Start: query.Get("start"),
			End:   query.Get("end"),
		})
	}
	if query.Has("prediction") {
		h.dashboard.SetPrediction(query.Get("prediction"))
	}
	if query.Has("q") {
		h.dashboard.SetSearch(query.Get("q"))
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
