package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"verifyhr/pkg/platform/sentinel"
)

// InMemoryLedger implements Transport for tests and single-node dev runs. It
// preserves the observable ledger contract: fresh ids per create, permanent
// records, opt-ins tracked per holder.
type InMemoryLedger struct {
	mu       sync.RWMutex
	nextID   uint64
	records  map[uint64]*Record
	holdings map[string]map[uint64]bool
	appCalls []AppCall

	// Error injection for failure-path tests. When set, the corresponding
	// operation fails with the given error.
	CreateErr error
	OptInErr  error
	CallErr   error
}

// NewInMemoryLedger constructs an empty ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		nextID:   1000,
		records:  make(map[uint64]*Record),
		holdings: make(map[string]map[uint64]bool),
	}
}

func (l *InMemoryLedger) CreateUniqueRecord(_ context.Context, owner, name, unitName, url string, metadataHash []byte) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.CreateErr != nil {
		return 0, l.CreateErr
	}
	if owner == "" {
		return 0, fmt.Errorf("owner address required: %w", sentinel.ErrInvalidState)
	}

	l.nextID++
	id := l.nextID

	hash := make([]byte, len(metadataHash))
	copy(hash, metadataHash)

	l.records[id] = &Record{
		ID:           id,
		Name:         name,
		UnitName:     unitName,
		URL:          url,
		MetadataHash: hash,
		Creator:      owner,
	}
	return id, nil
}

func (l *InMemoryLedger) OptIn(_ context.Context, owner string, recordID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.OptInErr != nil {
		return l.OptInErr
	}
	if _, ok := l.records[recordID]; !ok {
		return fmt.Errorf("record %d: %w", recordID, sentinel.ErrNotFound)
	}
	if l.holdings[owner] == nil {
		l.holdings[owner] = make(map[uint64]bool)
	}
	l.holdings[owner][recordID] = true
	return nil
}

func (l *InMemoryLedger) GetRecordByID(_ context.Context, recordID uint64) (*Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[recordID]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", recordID, sentinel.ErrNotFound)
	}
	out := *rec
	out.MetadataHash = append([]byte(nil), rec.MetadataHash...)
	return &out, nil
}

func (l *InMemoryLedger) CallApplication(_ context.Context, owner string, appID uint64, args [][]byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.CallErr != nil {
		return "", l.CallErr
	}
	if owner == "" {
		return "", fmt.Errorf("owner address required: %w", sentinel.ErrInvalidState)
	}

	call := AppCall{Sender: owner, AppID: appID, Args: args}
	l.appCalls = append(l.appCalls, call)
	return "TX-" + uuid.NewString(), nil
}

// Holds reports whether owner has opted in to the record.
func (l *InMemoryLedger) Holds(owner string, recordID uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.holdings[owner][recordID]
}

// AppCalls returns the submitted application calls in order.
func (l *InMemoryLedger) AppCalls() []AppCall {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]AppCall(nil), l.appCalls...)
}

// SetMetadataHash corrupts a stored commitment. Only for tamper-detection
// tests.
func (l *InMemoryLedger) SetMetadataHash(recordID uint64, hash []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.records[recordID]; ok {
		rec.MetadataHash = hash
	}
}
