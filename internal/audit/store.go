package audit

import "context"

// Store persists audit events. Append-only; events are never updated.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAsset(ctx context.Context, assetID uint64) ([]Event, error)
}
