package passport

import (
	"context"
	"fmt"
	"sync"

	"verifyhr/pkg/platform/sentinel"
)

// InMemoryIndex implements IndexStore for tests and single-node dev runs.
type InMemoryIndex struct {
	mu      sync.RWMutex
	records map[uint64]*HolderRecord
}

// NewInMemoryIndex constructs an empty index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{records: make(map[uint64]*HolderRecord)}
}

func (s *InMemoryIndex) FindByKey(_ context.Context, assetID uint64) (*HolderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[assetID]
	if !ok {
		return nil, fmt.Errorf("candidate %d: %w", assetID, sentinel.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (s *InMemoryIndex) Save(_ context.Context, rec *HolderRecord) error {
	if rec == nil || rec.AssetID == 0 {
		return fmt.Errorf("candidate record needs an asset id: %w", sentinel.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.AssetID] = rec.Clone()
	return nil
}
