package storage

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemory creates an in-memory store used for development and tests.
func NewMemory() Store {
	return &memoryStore{collections: make(map[string]map[string][]byte)}
}

func (s *memoryStore) Create(_ context.Context, collection, key string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string][]byte)
		s.collections[collection] = coll
	}
	if _, exists := coll[key]; exists {
		return ErrExists
	}
	coll[key] = clone(record)
	return nil
}

func (s *memoryStore) Read(_ context.Context, collection, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.collections[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(record), nil
}

func (s *memoryStore) Update(_ context.Context, collection, key string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collections[collection]
	if _, exists := coll[key]; !exists {
		return ErrNotFound
	}
	coll[key] = clone(record)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collections[collection]
	if _, exists := coll[key]; !exists {
		return ErrNotFound
	}
	delete(coll, key)
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
