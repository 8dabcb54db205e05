package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aryankumar/brogw/internal/registry"
)

// MemoryStore keeps series in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*registry.Series
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*registry.Series)}
}

// Get retrieves a series by key
func (s *MemoryStore) Get(_ context.Context, key string) (*registry.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.entries[key]
	if !ok {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}
	CacheHits.WithLabelValues("memory").Inc()
	return series, nil
}

// Put stores a series
func (s *MemoryStore) Put(_ context.Context, key string, series *registry.Series) error {
	if series == nil {
		return fmt.Errorf("series cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = series
	return nil
}

// Has reports whether key is cached
func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok, nil
}

// Keys lists all cached keys, sorted
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a cached series
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
