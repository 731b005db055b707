package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/roadwatch/internal/domain"
)

const (
	segmentPrefix = "journal-"
	filePerm      = 0644
)

// JournalRepository implements domain.RecordJournal as NDJSON segment files.
// It buffers image records while the store is unreachable; segments are
// replayed in name order, which is write order.
type JournalRepository struct {
	dir            string
	maxSegmentSize int64
	maxTotalSize   int64
	logger         *slog.Logger

	mu      sync.Mutex
	active  *os.File
	written int64
}

// NewJournalRepository opens (or creates) a journal directory and its latest
// segment.
func NewJournalRepository(dir string, maxSegmentSize, maxTotalSize int64, logger *slog.Logger) (*JournalRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory %s: %w", dir, err)
	}

	j := &JournalRepository{
		dir:            dir,
		maxSegmentSize: maxSegmentSize,
		maxTotalSize:   maxTotalSize,
		logger:         logger.With("component", "journal_repository"),
	}
	if err := j.openLatest(); err != nil {
		return nil, err
	}
	return j, nil
}

// Write appends one record to the active segment, rotating when the segment
// is full. Writes fail once the journal's total disk budget is exhausted.
func (j *JournalRepository) Write(ctx context.Context, record domain.ImageRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record for journal: %w", err)
	}
	line = append(line, '\n')

	if j.active == nil {
		if err := j.rotate(); err != nil {
			return err
		}
	}

	total, err := j.totalSize()
	if err != nil {
		return fmt.Errorf("check journal disk usage: %w", err)
	}
	if total+int64(len(line)) > j.maxTotalSize {
		return fmt.Errorf("journal disk budget exhausted (%d of %d bytes)", total, j.maxTotalSize)
	}

	n, err := j.active.Write(line)
	if err != nil {
		return fmt.Errorf("append to journal segment: %w", err)
	}
	j.written += int64(n)

	if j.written >= j.maxSegmentSize {
		if err := j.rotate(); err != nil {
			j.logger.Error("failed to rotate journal segment", "error", err)
		}
	}
	return nil
}

// Replay streams every journaled record to the handler in write order.
// Unreadable lines are skipped; a handler error stops the replay.
func (j *JournalRepository) Replay(ctx context.Context, handler func(record domain.ImageRecord) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.closeActive()

	segments, err := j.segments()
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return nil
	}
	j.logger.Info("replaying journal", "segment_count", len(segments))

	for _, path := range segments {
		if err := j.replaySegment(ctx, path, handler); err != nil {
			return err
		}
	}
	return nil
}

// Truncate removes all segments and starts a fresh one.
func (j *JournalRepository) Truncate(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.closeActive()

	segments, err := j.segments()
	if err != nil {
		return err
	}
	for _, path := range segments {
		if err := os.Remove(path); err != nil {
			j.logger.Error("failed to remove journal segment", "path", path, "error", err)
		}
	}
	return j.openLatest()
}

// Close flushes and closes the active segment.
func (j *JournalRepository) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.active == nil {
		return nil
	}
	err := j.active.Close()
	j.active = nil
	return err
}

func (j *JournalRepository) replaySegment(ctx context.Context, path string, handler func(record domain.ImageRecord) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open journal segment %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var record domain.ImageRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			j.logger.Warn("skipping unreadable journal line", "error", err)
			continue
		}
		if err := handler(record); err != nil {
			return fmt.Errorf("journal replay handler: %w", err)
		}
	}
	return scanner.Err()
}

func (j *JournalRepository) rotate() error {
	j.closeActive()

	path := filepath.Join(j.dir, fmt.Sprintf("%s%d.ndjson", segmentPrefix, time.Now().UnixNano()))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create journal segment %s: %w", path, err)
	}

	j.active = f
	j.written = 0
	return nil
}

func (j *JournalRepository) openLatest() error {
	segments, err := j.segments()
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return j.rotate()
	}

	latest := segments[len(segments)-1]
	stat, err := os.Stat(latest)
	if err != nil {
		return fmt.Errorf("stat journal segment %s: %w", latest, err)
	}
	if stat.Size() >= j.maxSegmentSize {
		return j.rotate()
	}

	f, err := os.OpenFile(latest, os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open journal segment %s: %w", latest, err)
	}
	j.active = f
	j.written = stat.Size()
	return nil
}

func (j *JournalRepository) closeActive() {
	if j.active == nil {
		return
	}
	if err := j.active.Sync(); err != nil {
		j.logger.Error("failed to sync journal segment", "error", err)
	}
	if err := j.active.Close(); err != nil {
		j.logger.Error("failed to close journal segment", "error", err)
	}
	j.active = nil
}

func (j *JournalRepository) segments() ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, fmt.Errorf("read journal directory: %w", err)
	}

	var segments []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), segmentPrefix) {
			segments = append(segments, filepath.Join(j.dir, entry.Name()))
		}
	}
	sort.Strings(segments)
	return segments, nil
}

func (j *JournalRepository) totalSize() (int64, error) {
	segments, err := j.segments()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, path := range segments {
		info, err := os.Stat(path)
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
