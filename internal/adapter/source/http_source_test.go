package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/roadwatch/internal/domain"
	"github.com/user/roadwatch/internal/domain/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPSource_ListImages(t *testing.T) {
	t.Run("Valid Listing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/list-images/" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"images":[{"filename":"1746581400.jpg","metadata":{"Prediction":"Rain","Location":"(10.5, 20.5)"}},{"filename":"1746581500.jpg"}]}`)
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL, 2*time.Second, discardLogger())
		records, err := src.ListImages(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("records: got %d", len(records))
		}
		if records[0].PredictionLabel() != "Rain" {
			t.Errorf("metadata lost: %+v", records[0])
		}
		if records[1].Metadata != nil {
			t.Errorf("expected nil metadata, got %+v", records[1].Metadata)
		}
	})

	t.Run("Upstream Error Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL, 2*time.Second, discardLogger())
		if _, err := src.ListImages(context.Background()); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestHTTPSource_ImageURL(t *testing.T) {
	src := NewHTTPSource("http://backend:8000/", time.Second, discardLogger())
	if got := src.ImageURL("1746581400.jpg"); got != "http://backend:8000/get-image/1746581400.jpg" {
		t.Errorf("imageURL: %q", got)
	}
}

func TestCachedSource(t *testing.T) {
	record := domain.ImageRecord{Filename: "1746581400.jpg"}

	t.Run("Cache Hit Skips Source", func(t *testing.T) {
		inner := &mocks.MockImageSource{Records: []domain.ImageRecord{record}}
		cache := &mocks.MockSnapshotCache{Snapshot: []domain.ImageRecord{record}, Present: true}
		src := NewCachedSource(inner, cache, discardLogger())

		records, err := src.ListImages(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 || inner.ListCalls != 0 {
			t.Errorf("expected cache hit, source called %d times", inner.ListCalls)
		}
	})

	t.Run("Cache Miss Populates Cache", func(t *testing.T) {
		inner := &mocks.MockImageSource{Records: []domain.ImageRecord{record}}
		cache := &mocks.MockSnapshotCache{}
		src := NewCachedSource(inner, cache, discardLogger())

		if _, err := src.ListImages(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cache.SetCalls != 1 {
			t.Errorf("cache not populated")
		}
	})

	t.Run("Cache Failure Falls Through", func(t *testing.T) {
		inner := &mocks.MockImageSource{Records: []domain.ImageRecord{record}}
		cache := &mocks.MockSnapshotCache{GetErr: errors.New("redis down")}
		src := NewCachedSource(inner, cache, discardLogger())

		records, err := src.ListImages(context.Background())
		if err != nil {
			t.Fatalf("expected fall-through, got %v", err)
		}
		if len(records) != 1 {
			t.Errorf("records: got %d", len(records))
		}
	})
}
