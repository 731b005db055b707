package domain

import "context"

// ImageSource supplies the raw record set. Implementations include the remote
// device backend's listing endpoint, the local Postgres store, and a caching
// wrapper around either.
type ImageSource interface {
	// ListImages returns the complete current record set. The result is a
	// fresh slice the caller may keep; sources never hand out shared state.
	ListImages(ctx context.Context) ([]ImageRecord, error)
}

// ImageRepository is the durable store for record metadata.
type ImageRepository interface {
	ImageSource

	// UpsertImages writes a batch of records, replacing metadata for
	// filenames already present. Idempotent per filename.
	UpsertImages(ctx context.Context, records []ImageRecord) error
}

// SnapshotCache holds a short-lived copy of the fetched listing so repeated
// dashboard refreshes do not hammer the upstream source.
type SnapshotCache interface {
	// GetSnapshot returns the cached record set and whether one was present.
	GetSnapshot(ctx context.Context) ([]ImageRecord, bool, error)

	// SetSnapshot replaces the cached record set.
	SetSnapshot(ctx context.Context, records []ImageRecord) error
}

// RecordJournal is the append-only fallback buffer for records that could not
// be written to the store. Records are replayed when the store recovers.
type RecordJournal interface {
	Write(ctx context.Context, record ImageRecord) error

	// Replay streams journaled records to the handler in write order. The
	// handler re-submits each record to the store.
	Replay(ctx context.Context, handler func(record ImageRecord) error) error

	// Truncate drops journal segments after a successful replay.
	Truncate(ctx context.Context) error
}
