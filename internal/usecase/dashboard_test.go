package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/user/roadwatch/internal/domain"
	"github.com/user/roadwatch/internal/domain/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDashboard(t *testing.T) {
	vocab := domain.DefaultVocabulary()

	t.Run("Refresh Replaces Raw Set And Derives Initial Range", func(t *testing.T) {
		rec := dayRecord(t, 2025, 5, 7, 10, &domain.ImageMetadata{Prediction: "Asphalt bad"})
		source := &mocks.MockImageSource{Records: []domain.ImageRecord{rec}}
		dash := NewDashboard(source, vocab, 8, discardLogger())

		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		view := dash.View()
		if view.Stats.TotalImages != 1 {
			t.Errorf("totalImages: got %d", view.Stats.TotalImages)
		}
		if view.Stats.CategoryCounts[domain.PredictionAsphaltBad] != 1 {
			t.Errorf("category count: got %+v", view.Stats.CategoryCounts)
		}
		want := domain.DateRange{Start: "2025-05-07", End: "2025-05-07"}
		if view.Criteria.DateRange != want {
			t.Errorf("initial dateRange: got %+v, want %+v", view.Criteria.DateRange, want)
		}
	})

	t.Run("Fetch Failure Keeps Last Snapshot", func(t *testing.T) {
		rec := dayRecord(t, 2025, 5, 7, 10, nil)
		source := &mocks.MockImageSource{Records: []domain.ImageRecord{rec}}
		dash := NewDashboard(source, vocab, 8, discardLogger())

		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		source.ListErr = errors.New("backend down")
		err := dash.Refresh(context.Background())
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
		if got := dash.View().Stats.TotalImages; got != 1 {
			t.Errorf("snapshot lost after failed refresh: total %d", got)
		}
	})

	t.Run("View Is Memoized Per Version", func(t *testing.T) {
		source := &mocks.MockImageSource{Records: []domain.ImageRecord{
			dayRecord(t, 2025, 5, 7, 10, nil),
			dayRecord(t, 2025, 5, 8, 10, nil),
		}}
		dash := NewDashboard(source, vocab, 8, discardLogger())
		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		first := dash.View()
		second := dash.View()
		if first.Version != second.Version {
			t.Errorf("version changed without a mutation: %d vs %d", first.Version, second.Version)
		}

		dash.SetSearch("1746")
		third := dash.View()
		if third.Version == first.Version {
			t.Errorf("mutation did not invalidate the view")
		}
	})

	t.Run("Filter Changes Reset Page", func(t *testing.T) {
		source := &mocks.MockImageSource{Records: makeRecords(17)}
		dash := NewDashboard(source, vocab, 8, discardLogger())
		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		dash.SetPage(2)
		if got := dash.View().PageState.CurrentPage; got != 2 {
			t.Fatalf("setPage: page %d", got)
		}

		dash.SetPrediction("Rain")
		if got := dash.View().PageState.CurrentPage; got != 1 {
			t.Errorf("page not reset on filter change: %d", got)
		}
	})

	t.Run("Out Of Range Page Is A No-Op", func(t *testing.T) {
		source := &mocks.MockImageSource{Records: makeRecords(17)}
		dash := NewDashboard(source, vocab, 8, discardLogger())
		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		dash.SetPage(2)
		dash.SetPage(99)
		if got := dash.View().PageState.CurrentPage; got != 2 {
			t.Errorf("out-of-range request moved the page to %d", got)
		}
		dash.SetPage(0)
		if got := dash.View().PageState.CurrentPage; got != 2 {
			t.Errorf("zero page request moved the page to %d", got)
		}
	})

	t.Run("Reset Filters Restores Defaults", func(t *testing.T) {
		source := &mocks.MockImageSource{Records: []domain.ImageRecord{
			dayRecord(t, 2025, 5, 6, 10, nil),
			dayRecord(t, 2025, 5, 9, 10, nil),
		}}
		dash := NewDashboard(source, vocab, 8, discardLogger())
		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		dash.SetPrediction("Rain")
		dash.SetDateRange(domain.DateRange{Start: "2025-05-09", End: "2025-05-09"})
		dash.ResetFilters()

		view := dash.View()
		if view.Criteria.Prediction != "" {
			t.Errorf("prediction filter survived reset: %q", view.Criteria.Prediction)
		}
		want := domain.DateRange{Start: "2025-05-06", End: "2025-05-09"}
		if view.Criteria.DateRange != want {
			t.Errorf("dateRange after reset: %+v", view.Criteria.DateRange)
		}
	})

	t.Run("Export Uses Filtered Order", func(t *testing.T) {
		source := &mocks.MockImageSource{Records: []domain.ImageRecord{
			dayRecord(t, 2025, 5, 7, 10, &domain.ImageMetadata{Prediction: "Rain"}),
		}}
		dash := NewDashboard(source, vocab, 8, discardLogger())
		if err := dash.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}

		artifact := dash.Export(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))
		if artifact.Filename != "road-data-export-2025-05-10.csv" {
			t.Errorf("filename: %q", artifact.Filename)
		}
	})
}
