package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"verifyhr/pkg/platform/sentinel"
)

// InMemoryStore is a content-addressed store for tests and single-node dev
// runs. Content ids are real CIDv1 values over the payload bytes, so locators
// look and behave exactly like remote ones.
type InMemoryStore struct {
	mu     sync.RWMutex
	blocks map[string][]byte
}

// NewInMemoryStore constructs an empty in-memory content store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blocks: make(map[string][]byte)}
}

func (s *InMemoryStore) PublishJSON(_ context.Context, payload []byte, _ string) (string, error) {
	mh, err := multihash.Sum(payload, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("hash payload: %w", err)
	}
	id := cid.NewCidV1(cid.Raw, mh).String()

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.blocks[id] = stored
	return id, nil
}

func (s *InMemoryStore) Fetch(_ context.Context, contentID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[contentID]
	if !ok {
		return nil, fmt.Errorf("content %s: %w", contentID, sentinel.ErrNotFound)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Corrupt overwrites stored bytes under an existing content id without
// changing the id. Only for tamper-detection tests.
func (s *InMemoryStore) Corrupt(contentID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[contentID] = payload
}
