package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/roadwatch/internal/domain"
)

const snapshotKey = "image_listing_snapshot"

// SnapshotCache implements domain.SnapshotCache on Redis. The full record
// listing is stored as one JSON value with a TTL; expiry forces the next
// refresh back to the upstream source.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache creates a Redis-backed snapshot cache.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "snapshot_cache"),
	}
}

// GetSnapshot returns the cached listing, if one is present and unexpired.
func (c *SnapshotCache) GetSnapshot(ctx context.Context) ([]domain.ImageRecord, bool, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot from redis: %w", err)
	}

	var records []domain.ImageRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		// A corrupt snapshot is treated as a miss so the source repopulates it.
		c.logger.Warn("discarding unreadable snapshot", "error", err)
		return nil, false, nil
	}
	return records, true, nil
}

// SetSnapshot replaces the cached listing.
func (c *SnapshotCache) SetSnapshot(ctx context.Context, records []domain.ImageRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write snapshot to redis: %w", err)
	}
	return nil
}
