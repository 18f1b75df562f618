package memory

import (
	"context"
	"errors"
	"sync"
)

// Storage is an in-memory metadata sink keyed by index and vector id.
// Updates merge into existing metadata, creating the record when absent.
type Storage struct {
	mu      sync.RWMutex
	open    bool
	records map[string]map[string]map[string]string
}

func NewStorage() *Storage { return &Storage{records: make(map[string]map[string]map[string]string)} }

func (s *Storage) Name() string { return "memory" }

func (s *Storage) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	return nil
}

func (s *Storage) UpdateMetadata(ctx context.Context, index, vectorID string, metadata map[string]string) error {
	if index == "" || vectorID == "" {
		return errors.New("index and vector id are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return errors.New("memory storage is not open")
	}
	idx, ok := s.records[index]
	if !ok {
		idx = make(map[string]map[string]string)
		s.records[index] = idx
	}
	rec, ok := idx[vectorID]
	if !ok {
		rec = make(map[string]string, len(metadata))
		idx[vectorID] = rec
	}
	for k, v := range metadata {
		rec[k] = v
	}
	return nil
}

// Metadata returns a copy of the record's metadata.
func (s *Storage) Metadata(index, vectorID string) (map[string]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[index][vectorID]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out, true
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}
