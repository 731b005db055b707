package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/roadwatch/internal/domain"
)

const (
	defaultRetryCount   = 3
	defaultRetryBackoff = 1 * time.Second
)

// SyncRecordsUseCase pulls the record listing from a device backend and
// mirrors it into the local store. Store outages never lose records: batches
// that cannot be written are appended to the journal and replayed once the
// store accepts writes again.
type SyncRecordsUseCase struct {
	source  domain.ImageSource
	store   domain.ImageRepository
	journal domain.RecordJournal
	logger  *slog.Logger
}

// NewSyncRecordsUseCase creates a new use case for mirroring records.
// The journal is optional; pass nil to fail hard on store errors.
func NewSyncRecordsUseCase(source domain.ImageSource, store domain.ImageRepository, journal domain.RecordJournal, logger *slog.Logger) *SyncRecordsUseCase {
	return &SyncRecordsUseCase{
		source:  source,
		store:   store,
		journal: journal,
		logger:  logger,
	}
}

// SyncOnce fetches the current listing and upserts it into the store,
// retrying transient failures. On persistent failure the batch lands in the
// journal. Returns the number of records written to the store.
func (uc *SyncRecordsUseCase) SyncOnce(ctx context.Context) (int, error) {
	records, err := uc.source.ListImages(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch record listing", "error", err)
		return 0, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := uc.writeWithRetry(ctx, records); err != nil {
		uc.logger.Error("failed to write record batch after retries", "error", err, "count", len(records))
		if uc.journal == nil {
			return 0, err
		}
		for _, rec := range records {
			if jerr := uc.journal.Write(ctx, rec); jerr != nil {
				uc.logger.Error("failed to journal record", "error", jerr, "filename", rec.Filename)
			}
		}
		uc.logger.Warn("record batch journaled for later replay", "count", len(records))
		return 0, err
	}

	// Store is healthy; flush anything buffered from earlier outages.
	if uc.journal != nil {
		if err := uc.ReplayJournal(ctx); err != nil {
			uc.logger.Error("journal replay failed", "error", err)
		}
	}

	uc.logger.Info("record batch synced", "count", len(records))
	return len(records), nil
}

// ReplayJournal re-submits journaled records to the store and truncates the
// journal on success.
func (uc *SyncRecordsUseCase) ReplayJournal(ctx context.Context) error {
	err := uc.journal.Replay(ctx, func(rec domain.ImageRecord) error {
		return uc.store.UpsertImages(ctx, []domain.ImageRecord{rec})
	})
	if err != nil {
		return fmt.Errorf("journal replay: %w", err)
	}
	if err := uc.journal.Truncate(ctx); err != nil {
		return fmt.Errorf("journal truncate after replay: %w", err)
	}
	return nil
}

func (uc *SyncRecordsUseCase) writeWithRetry(ctx context.Context, records []domain.ImageRecord) error {
	var lastErr error
	for attempt := 1; attempt <= defaultRetryCount; attempt++ {
		lastErr = uc.store.UpsertImages(ctx, records)
		if lastErr == nil {
			return nil
		}
		uc.logger.Warn("store write failed, retrying", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(defaultRetryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
