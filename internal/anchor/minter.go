package anchor

import (
	"context"
	"encoding/hex"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"verifyhr/internal/content"
	"verifyhr/internal/ledger"
	"verifyhr/internal/platform/metrics"
	dErrors "verifyhr/pkg/domain-errors"
)

const (
	// PassportUnitLabel marks a career passport anchor. Registry resolution
	// and verification both key off this value.
	PassportUnitLabel = "verifyCP"

	// CredentialUnitLabel marks an individual credential anchor.
	CredentialUnitLabel = "vHR"

	// PassportName is the display name of a career passport anchor.
	PassportName = "vHR"
)

// WarnFunc receives non-fatal warnings from background sub-steps. It is the
// opt-in follow-up's independent error channel: failures there never affect
// the mint result.
type WarnFunc func(ctx context.Context, msg string, err error)

// Minter binds content hashes to new uniquely-owned on-chain anchor records.
type Minter struct {
	transport ledger.Transport
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	warn      WarnFunc
}

// NewMinter builds a minter. warn may be nil, in which case warnings are
// logged and counted.
func NewMinter(transport ledger.Transport, logger *slog.Logger, m *metrics.Metrics, warn WarnFunc) *Minter {
	minter := &Minter{
		transport: transport,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("verifyhr/anchor"),
	}
	if warn == nil {
		warn = func(ctx context.Context, msg string, err error) {
			logger.WarnContext(ctx, msg, "error", err)
		}
	}
	minter.warn = warn
	return minter
}

// Mint creates a new anchor record committing to the locator's content hash:
// supply exactly one, non-divisible, not frozen by default, URL holding the
// locator and metadata hash holding the raw 32-byte digest.
//
// Not idempotent: two calls with identical inputs produce two distinct
// anchors, because the ledger assigns a fresh id each time. Guarding against
// duplicate submission is the caller's responsibility.
//
// After the mint resolves, an automatic opt-in registering owner as holder is
// attempted in the background; its failure is a warning, never an error. The
// anchor already exists and is valid.
func (m *Minter) Mint(ctx context.Context, owner, name, unitName string, loc content.Locator) (*ledger.Record, error) {
	ctx, span := m.tracer.Start(ctx, "anchor.mint")
	defer span.End()

	// Checked before any network call so a rejected mint leaves no partial
	// on-chain state.
	if owner == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "owner address is required")
	}
	commitment, err := hex.DecodeString(loc.HashHex)
	if err != nil || len(commitment) != 32 {
		return nil, dErrors.New(dErrors.CodeValidation, "content hash must be a 256-bit hex digest")
	}

	recordID, err := m.transport.CreateUniqueRecord(ctx, owner, name, unitName, loc.String(), commitment)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "mint anchor record")
	}

	m.metrics.IncrementAnchorMinted(unitName)
	m.logger.InfoContext(ctx, "anchor minted",
		"record_id", recordID,
		"unit", unitName,
		"locator_kind", string(loc.Kind),
	)

	// Fire-and-forget relative to this call: the mint result above is already
	// final. The background context survives the caller abandoning its await.
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := m.transport.OptIn(bg, owner, recordID); err != nil {
			m.metrics.IncrementOptInFailure()
			m.warn(bg, "automatic opt-in failed", err)
			return
		}
		m.logger.InfoContext(bg, "owner opted in to anchor", "record_id", recordID)
	}()

	return &ledger.Record{
		ID:           recordID,
		Name:         name,
		UnitName:     unitName,
		URL:          loc.String(),
		MetadataHash: commitment,
		Creator:      owner,
	}, nil
}
