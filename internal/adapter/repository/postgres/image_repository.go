package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/user/roadwatch/internal/adapter/timestamp"
	"github.com/user/roadwatch/internal/domain"
)

// ImageRepository implements domain.ImageRepository on PostgreSQL. Batches go
// through the COPY protocol into a temp table and merge with an upsert, so a
// re-synced listing never duplicates rows.
type ImageRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewImageRepository creates a new PostgreSQL image repository.
func NewImageRepository(db *sql.DB, logger *slog.Logger) *ImageRepository {
	return &ImageRepository{db: db, logger: logger.With("component", "postgres_repository")}
}

// UpsertImages writes a batch of records, keyed by filename.
func (r *ImageRepository) UpsertImages(ctx context.Context, records []domain.ImageRecord) error {
	if len(records) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer txn.Rollback() // no-op once Commit succeeds

	tempTableName := "images_temp_import"
	_, err = txn.ExecContext(ctx, `CREATE TEMP TABLE `+tempTableName+` (LIKE images INCLUDING DEFAULTS) ON COMMIT DROP;`)
	if err != nil {
		return err
	}

	stmt, err := txn.Prepare(pq.CopyIn(tempTableName, "filename", "prediction", "location", "captured_at"))
	if err != nil {
		return err
	}

	for _, rec := range records {
		var capturedAt sql.NullTime
		if decoded, derr := timestamp.Decode(rec.Filename); derr == nil {
			capturedAt = sql.NullTime{Time: decoded.Time, Valid: true}
		}
		prediction := sql.NullString{String: rec.PredictionLabel(), Valid: rec.PredictionLabel() != ""}
		location := sql.NullString{String: rec.LocationString(), Valid: rec.HasLocation()}

		if _, err = stmt.ExecContext(ctx, rec.Filename, prediction, location, capturedAt); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	if err := stmt.Close(); err != nil {
		return err
	}

	upsertQuery := `
		INSERT INTO images (filename, prediction, location, captured_at)
		SELECT filename, prediction, location, captured_at FROM ` + tempTableName + `
		ON CONFLICT (filename) DO UPDATE SET
			prediction = EXCLUDED.prediction,
			location = EXCLUDED.location,
			captured_at = EXCLUDED.captured_at;
	`
	if _, err = txn.ExecContext(ctx, upsertQuery); err != nil {
		return err
	}

	return txn.Commit()
}

// ListImages returns every stored record, newest capture first so the local
// listing endpoint matches what devices produce.
func (r *ImageRepository) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT filename, prediction, location FROM images ORDER BY captured_at DESC NULLS LAST, filename ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ImageRecord
	for rows.Next() {
		var filename string
		var prediction, location sql.NullString
		if err := rows.Scan(&filename, &prediction, &location); err != nil {
			return nil, err
		}

		rec := domain.ImageRecord{Filename: filename}
		if prediction.Valid || location.Valid {
			rec.Metadata = &domain.ImageMetadata{
				Prediction: prediction.String,
				Location:   location.String,
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
