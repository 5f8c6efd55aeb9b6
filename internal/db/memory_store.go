package db

import (
	"context"
	"sync"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

type memoryRecord struct {
	version int64
	raw     []byte
}

// MemoryStore keeps encoded records in process memory.
// Records are stored encoded so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

// Load implements HunterStore.
func (s *MemoryStore) Load(_ context.Context, id string) (*model.Hunter, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	h, err := decodeHunter(rec.raw)
	if err != nil {
		return nil, err
	}
	h.Version = rec.version
	return h, nil
}

// Save implements HunterStore.
func (s *MemoryStore) Save(_ context.Context, h *model.Hunter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records[h.ID].version != h.Version {
		return ErrVersionConflict
	}
	next := h.Version + 1
	stored := *h
	stored.Version = next
	raw, err := encodeHunter(&stored)
	if err != nil {
		return err
	}
	s.records[h.ID] = memoryRecord{version: next, raw: raw}
	h.Version = next
	return nil
}

// Close implements HunterStore.
func (s *MemoryStore) Close() error {
	return nil
}
