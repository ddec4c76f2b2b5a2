package passport

import "context"

// CandidateIndex is the read side the registry resolves against before it
// ever touches the ledger. Implementations return sentinel.ErrNotFound for
// unknown keys.
type CandidateIndex interface {
	FindByKey(ctx context.Context, assetID uint64) (*HolderRecord, error)
}

// IndexStore is the full candidate index: the registry's read path plus the
// seeding write path used by operators.
type IndexStore interface {
	CandidateIndex

	// Save upserts a candidate record keyed by its asset id.
	Save(ctx context.Context, rec *HolderRecord) error
}
