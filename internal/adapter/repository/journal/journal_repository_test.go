package journal

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/user/roadwatch/internal/domain"
)

func newTestJournal(t *testing.T) *JournalRepository {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	j, err := NewJournalRepository(t.TempDir(), 1024, 64*1024, logger)
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRepository(t *testing.T) {
	ctx := context.Background()
	records := []domain.ImageRecord{
		{Filename: "1746581400.jpg", Metadata: &domain.ImageMetadata{Prediction: "Rain"}},
		{Filename: "1746581500.jpg"},
		{Filename: "1746581600.jpg", Metadata: &domain.ImageMetadata{Location: "(10.5, 20.5)"}},
	}

	t.Run("Write Then Replay In Order", func(t *testing.T) {
		j := newTestJournal(t)
		for _, rec := range records {
			if err := j.Write(ctx, rec); err != nil {
				t.Fatalf("write: %v", err)
			}
		}

		var replayed []domain.ImageRecord
		err := j.Replay(ctx, func(rec domain.ImageRecord) error {
			replayed = append(replayed, rec)
			return nil
		})
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if len(replayed) != len(records) {
			t.Fatalf("replayed %d of %d records", len(replayed), len(records))
		}
		for i, rec := range replayed {
			if rec.Filename != records[i].Filename {
				t.Errorf("position %d: got %q, want %q", i, rec.Filename, records[i].Filename)
			}
		}
		if replayed[0].PredictionLabel() != "Rain" {
			t.Errorf("metadata lost on replay: %+v", replayed[0])
		}
	})

	t.Run("Truncate Empties The Journal", func(t *testing.T) {
		j := newTestJournal(t)
		if err := j.Write(ctx, records[0]); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := j.Truncate(ctx); err != nil {
			t.Fatalf("truncate: %v", err)
		}

		count := 0
		if err := j.Replay(ctx, func(domain.ImageRecord) error { count++; return nil }); err != nil {
			t.Fatalf("replay: %v", err)
		}
		if count != 0 {
			t.Errorf("journal not empty after truncate: %d records", count)
		}
	})

	t.Run("Segment Rotation Preserves Order", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		j, err := NewJournalRepository(t.TempDir(), 64, 64*1024, logger)
		if err != nil {
			t.Fatalf("failed to create journal: %v", err)
		}
		defer j.Close()

		// Each record exceeds the tiny segment size, forcing one per segment.
		for _, rec := range records {
			if err := j.Write(ctx, rec); err != nil {
				t.Fatalf("write: %v", err)
			}
		}

		var replayed []string
		if err := j.Replay(ctx, func(rec domain.ImageRecord) error {
			replayed = append(replayed, rec.Filename)
			return nil
		}); err != nil {
			t.Fatalf("replay: %v", err)
		}
		for i, name := range replayed {
			if name != records[i].Filename {
				t.Fatalf("rotation broke ordering: %v", replayed)
			}
		}
	})

	t.Run("Disk Budget Enforced", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		j, err := NewJournalRepository(t.TempDir(), 1024, 50, logger)
		if err != nil {
			t.Fatalf("failed to create journal: %v", err)
		}
		defer j.Close()

		if err := j.Write(ctx, domain.ImageRecord{Filename: "1746581400.jpg", Metadata: &domain.ImageMetadata{Prediction: "Asphalt bad", Location: "(10.7626, 106.6602)"}}); err == nil {
			t.Error("expected the disk budget to reject the write")
		}
	})
}
