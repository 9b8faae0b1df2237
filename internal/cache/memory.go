package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewMemory returns an in-process Store with the same staleness rules as
// the redis one. Used by tests and as a degraded mode when redis is not
// configured.
func NewMemory() Store {
	return &memoryStore{entries: make(map[string]entry)}
}

func (s *memoryStore) Get(_ context.Context, key string, v any) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	s.mu.Unlock()

	if !ok || time.Since(e.Timestamp) > MaxAge {
		return false
	}
	return json.Unmarshal(e.Data, v) == nil
}

func (s *memoryStore) Set(_ context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{Data: data, Timestamp: time.Now()}
	s.mu.Unlock()
}
