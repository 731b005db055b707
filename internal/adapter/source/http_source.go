package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/user/roadwatch/internal/domain"
)

// HTTPSource fetches the record listing from a device backend over HTTP.
// This is the external collaborator that supplies the raw set on refresh.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPSource creates a listing client for the given backend base URL.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "http_source"),
	}
}

// ListImages calls the backend's listing endpoint and returns the complete
// record set.
func (s *HTTPSource) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/list-images/", nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing endpoint returned status %d", resp.StatusCode)
	}

	var listing domain.ImageListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return listing.Images, nil
}

// ImageURL builds the byte-serving URL for a stored image. The filename is
// passed through unescaped; the presentation layer fetches the bytes itself.
func (s *HTTPSource) ImageURL(filename string) string {
	return s.baseURL + "/get-image/" + filename
}

// CachedSource wraps an ImageSource with a snapshot cache so repeated
// refreshes within the TTL are served without touching the upstream. Cache
// failures are non-fatal and fall through to the source.
type CachedSource struct {
	inner  domain.ImageSource
	cache  domain.SnapshotCache
	logger *slog.Logger
}

// NewCachedSource wraps a source with a snapshot cache.
func NewCachedSource(inner domain.ImageSource, cache domain.SnapshotCache, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		logger: logger.With("component", "cached_source"),
	}
}

func (s *CachedSource) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	records, ok, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		s.logger.Warn("snapshot cache read failed, falling through", "error", err)
	} else if ok {
		return records, nil
	}

	records, err = s.inner.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSnapshot(ctx, records); err != nil {
		s.logger.Warn("snapshot cache write failed", "error", err)
	}
	return records, nil
}
