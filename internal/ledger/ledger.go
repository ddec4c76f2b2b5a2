package ledger

import "context"

// Record is an on-chain record as read back from the ledger. Anchor records
// are created with supply exactly one, zero decimals, and a 32-byte metadata
// hash carrying the content commitment; once created they are permanent and
// their commitment never changes.
type Record struct {
	ID           uint64
	Name         string
	UnitName     string
	URL          string
	MetadataHash []byte
	Creator      string
}

// AppCall captures an application call as submitted to the ledger.
type AppCall struct {
	Sender string
	AppID  uint64
	Args   [][]byte
}

// Transport is the ledger capability the engine requires from collaborators.
// Transaction construction and signing live behind this interface; the engine
// passes the owner address per call and never touches key material.
//
// Implementations return sentinel.ErrNotFound for absent records and
// sentinel.ErrUnavailable (wrapped) when the signer or network is down.
type Transport interface {
	// CreateUniqueRecord mints a new uniquely-owned, non-divisible record and
	// returns the ledger-assigned id. Every call yields a fresh id, even for
	// identical inputs.
	CreateUniqueRecord(ctx context.Context, owner, name, unitName, url string, metadataHash []byte) (uint64, error)

	// OptIn registers owner as a holder of the record.
	OptIn(ctx context.Context, owner string, recordID uint64) error

	// GetRecordByID reads a record.
	GetRecordByID(ctx context.Context, recordID uint64) (*Record, error)

	// CallApplication submits an application call and returns the transaction
	// id.
	CallApplication(ctx context.Context, owner string, appID uint64, args [][]byte) (string, error)
}
