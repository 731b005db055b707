package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/roadwatch/internal/domain"
)

// DashboardView is one fully derived presentation of the current state:
// filtered records, gallery ordering, statistics, chart datasets, the current
// page and its display window. Views are value snapshots; mutating one never
// affects the controller.
type DashboardView struct {
	// Filtered holds the matching records in raw-set order; statistics and
	// exports derive from it.
	Filtered []domain.ImageRecord
	// Gallery holds the same records ordered newest first for browsing.
	Gallery    []domain.ImageRecord
	Stats      domain.StatsSnapshot
	Charts     domain.ChartData
	Page       []domain.ImageRecord
	PageState  domain.PageState
	PageWindow []int
	Criteria   domain.FilterCriteria
	Version    uint64
}

// Dashboard owns the presentation state both surfaces share: the raw record
// set, the filter criteria and the current page. All mutation goes through
// its event methods under a single lock; every derived structure is a pure
// function of (rawSet, criteria, page) and is memoized per state version.
type Dashboard struct {
	source   domain.ImageSource
	vocab    *domain.Vocabulary
	pageSize int
	logger   *slog.Logger

	mu       sync.Mutex
	raw      []domain.ImageRecord
	criteria domain.FilterCriteria
	page     int
	version  uint64

	cached        DashboardView
	cachedVersion uint64
}

// NewDashboard creates a controller with an empty raw set.
func NewDashboard(source domain.ImageSource, vocab *domain.Vocabulary, pageSize int, logger *slog.Logger) *Dashboard {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	return &Dashboard{
		source:   source,
		vocab:    vocab,
		pageSize: pageSize,
		logger:   logger,
		page:     1,
		version:  1,
	}
}

// Refresh fetches the record set from the source and replaces the raw set
// wholesale. On fetch failure the previous snapshot stays in place and the
// error is returned. Replacing the set resets pagination to page 1 and
// re-derives the default date range from the new data.
func (d *Dashboard) Refresh(ctx context.Context) error {
	records, err := d.source.ListImages(ctx)
	if err != nil {
		d.logger.Error("failed to refresh image listing", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.raw = records
	d.criteria.DateRange = InitialDateRange(records)
	d.page = 1
	d.bumpLocked()
	d.logger.Info("raw record set replaced", "count", len(records), "version", d.version)
	return nil
}

// SetDateRange replaces the date-range filter and resets to page 1.
func (d *Dashboard) SetDateRange(r domain.DateRange) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.criteria.DateRange == r {
		return
	}
	d.criteria.DateRange = r
	d.page = 1
	d.bumpLocked()
}

// SetPrediction replaces the category filter and resets to page 1.
func (d *Dashboard) SetPrediction(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.criteria.Prediction == label {
		return
	}
	d.criteria.Prediction = label
	d.page = 1
	d.bumpLocked()
}

// SetSearch replaces the text filter and resets to page 1.
func (d *Dashboard) SetSearch(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.criteria.Search == term {
		return
	}
	d.criteria.Search = term
	d.page = 1
	d.bumpLocked()
}

// ResetFilters restores the default criteria: the full date range of the raw
// set, no category, no search term.
func (d *Dashboard) ResetFilters() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.criteria = domain.FilterCriteria{DateRange: InitialDateRange(d.raw)}
	d.page = 1
	d.bumpLocked()
}

// SetPage navigates to a page. Requests outside [1, totalPages] are no-ops.
func (d *Dashboard) SetPage(page int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view := d.deriveLocked()
	if page < 1 || page > view.PageState.TotalPages || page == d.page {
		return
	}
	d.page = page
	d.bumpLocked()
}

// View returns the current derived view, computing it only when the state
// changed since the last derivation.
func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deriveLocked()
}

// Export serializes the current filtered set, in filtered order, to a CSV
// artifact stamped with the given date.
func (d *Dashboard) Export(now time.Time) ExportArtifact {
	view := d.View()
	return ExportCSV(view.Filtered, now)
}

// Version returns the current state version. It changes on every mutation.
func (d *Dashboard) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *Dashboard) bumpLocked() {
	d.version++
}

func (d *Dashboard) deriveLocked() DashboardView {
	if d.cachedVersion == d.version {
		return d.cached
	}

	start := time.Now()
	filtered := FilterRecords(d.raw, d.criteria)
	gallery := SortNewestFirst(filtered)
	stats, charts := Aggregate(filtered, d.vocab)
	page, pageState := Paginate(gallery, d.pageSize, d.page)

	view := DashboardView{
		Filtered:   filtered,
		Gallery:    gallery,
		Stats:      stats,
		Charts:     charts,
		Page:       page,
		PageState:  pageState,
		PageWindow: PageWindow(pageState.TotalPages, pageState.CurrentPage),
		Criteria:   d.criteria,
		Version:    d.version,
	}

	d.cached = view
	d.cachedVersion = d.version
	d.logger.Debug("derived dashboard view",
		"version", d.version,
		"filtered", len(filtered),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return view
}
