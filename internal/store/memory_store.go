// internal/store/memory_store.go
package store

import (
	"context"
	"sync"

	"cablescan-service/internal/model"
)

// MemoryStore keeps the scan settings for the lifetime of the process
type MemoryStore struct {
	mu  sync.RWMutex
	cfg model.PersistedConfig
}

// NewMemoryStore creates a store holding the factory defaults
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cfg: model.DefaultPersistedConfig()}
}

func (s *MemoryStore) Load(ctx context.Context) (model.PersistedConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

func (s *MemoryStore) Save(ctx context.Context, cfg model.PersistedConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}
