package storage

import (
	"context"
	"sync"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

// MemoryStore is an in-process FeedStore, used for fixtures and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []domain.CommunicationRecord
	loadErr error
	saveErr error
	saves   int
}

var _ ports.FeedStore = (*MemoryStore)(nil)

// NewMemoryStore seeds the store with records.
func NewMemoryStore(records ...domain.CommunicationRecord) *MemoryStore {
	return &MemoryStore{records: cloneRecords(records)}
}

// FailLoad makes subsequent loads return err.
func (m *MemoryStore) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes subsequent saves return err without changing the contents.
func (m *MemoryStore) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Load implements ports.FeedStore.
func (m *MemoryStore) Load(context.Context) ([]domain.CommunicationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return cloneRecords(m.records), nil
}

// Save implements ports.FeedStore.
func (m *MemoryStore) Save(_ context.Context, records []domain.CommunicationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = cloneRecords(records)
	m.saves++
	return nil
}

// Records returns a copy of the current contents.
func (m *MemoryStore) Records() []domain.CommunicationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRecords(m.records)
}

// Saves counts successful Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneRecords(records []domain.CommunicationRecord) []domain.CommunicationRecord {
	if records == nil {
		return nil
	}
	out := make([]domain.CommunicationRecord, len(records))
	copy(out, records)
	return out
}
