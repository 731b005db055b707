package mocks

import (
	"context"
	"sync"

	"github.com/user/roadwatch/internal/domain"
)

// MockImageSource is a mock implementation of domain.ImageSource for testing.
type MockImageSource struct {
	mu        sync.Mutex
	Records   []domain.ImageRecord
	ListErr   error
	ListCalls int
}

func (m *MockImageSource) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]domain.ImageRecord, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

// MockImageRepository is a mock implementation of domain.ImageRepository.
type MockImageRepository struct {
	mu        sync.Mutex
	Stored    []domain.ImageRecord
	UpsertErr error
	ListErr   error
}

func (m *MockImageRepository) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]domain.ImageRecord, len(m.Stored))
	copy(out, m.Stored)
	return out, nil
}

func (m *MockImageRepository) UpsertImages(ctx context.Context, records []domain.ImageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Stored = append(m.Stored, records...)
	return nil
}

// MockSnapshotCache is a mock implementation of domain.SnapshotCache.
type MockSnapshotCache struct {
	mu       sync.Mutex
	Snapshot []domain.ImageRecord
	Present  bool
	GetErr   error
	SetErr   error
	SetCalls int
}

func (m *MockSnapshotCache) GetSnapshot(ctx context.Context) ([]domain.ImageRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	if !m.Present {
		return nil, false, nil
	}
	out := make([]domain.ImageRecord, len(m.Snapshot))
	copy(out, m.Snapshot)
	return out, true, nil
}

func (m *MockSnapshotCache) SetSnapshot(ctx context.Context, records []domain.ImageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Snapshot = append([]domain.ImageRecord(nil), records...)
	m.Present = true
	return nil
}

// MockRecordJournal is a mock implementation of domain.RecordJournal.
type MockRecordJournal struct {
	mu        sync.Mutex
	Entries   []domain.ImageRecord
	WriteErr  error
	Truncated bool
}

func (m *MockRecordJournal) Write(ctx context.Context, record domain.ImageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Entries = append(m.Entries, record)
	return nil
}

func (m *MockRecordJournal) Replay(ctx context.Context, handler func(record domain.ImageRecord) error) error {
	m.mu.Lock()
	entries := append([]domain.ImageRecord(nil), m.Entries...)
	m.mu.Unlock()
	for _, rec := range entries {
		if err := handler(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockRecordJournal) Truncate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = nil
	m.Truncated = true
	return nil
}
