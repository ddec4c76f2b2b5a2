package passport

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"verifyhr/internal/anchor"
	"verifyhr/internal/content"
	"verifyhr/internal/credential"
	"verifyhr/internal/ledger"
	"verifyhr/internal/platform/config"
	"verifyhr/internal/platform/metrics"
	dErrors "verifyhr/pkg/domain-errors"
	"verifyhr/pkg/platform/sentinel"
)

// AddCredentialInstruction is the application call instruction that links a
// published credential to a passport's on-chain index.
const AddCredentialInstruction = "addCredential"

const cacheSize = 1024

// Registry resolves career passports and appends credentials to them.
//
// Resolution is index-first: the candidate index is the richer source (it
// carries the holder's name and full credential history), so it always wins
// over the ledger. The ledger fallback only confirms that an anchor with the
// passport schema exists and synthesizes a minimal record from it.
type Registry struct {
	index     CandidateIndex
	transport ledger.Transport
	publisher *content.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	// cache holds records synthesized from the ledger fallback. Indexed
	// candidates are never cached here; the index is authoritative and cheap.
	cache *expirable.LRU[uint64, *HolderRecord]
}

// NewRegistry builds a registry. index may be nil when no candidate data is
// seeded, in which case every resolution goes straight to the ledger.
func NewRegistry(index CandidateIndex, transport ledger.Transport, publisher *content.Publisher, logger *slog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		index:     index,
		transport: transport,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("verifyhr/passport"),
		cache:     expirable.NewLRU[uint64, *HolderRecord](cacheSize, nil, config.RegistryCacheTTL),
	}
}

// Resolve looks up the passport behind an anchor id.
//
// Order: candidate index, then the fallback cache, then the ledger. A ledger
// record whose name or unit label does not match the passport anchor schema
// is treated the same as an absent record.
func (r *Registry) Resolve(ctx context.Context, assetID uint64) (*HolderRecord, error) {
	ctx, span := r.tracer.Start(ctx, "passport.resolve")
	defer span.End()

	if assetID == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "asset id is required")
	}

	if r.index != nil {
		rec, err := r.index.FindByKey(ctx, assetID)
		switch {
		case err == nil:
			r.metrics.IncrementResolve("index")
			rec.SortForPresentation()
			return rec, nil
		case errors.Is(err, sentinel.ErrNotFound):
			// fall through to the ledger
		default:
			// A broken index must not hide on-chain passports; log and keep
			// resolving.
			r.logger.WarnContext(ctx, "candidate index lookup failed", "asset_id", assetID, "error", err)
		}
	}

	if rec, ok := r.cache.Get(assetID); ok {
		r.metrics.IncrementResolve("cache")
		return rec.Clone(), nil
	}

	onChain, err := r.transport.GetRecordByID(ctx, assetID)
	if errors.Is(err, sentinel.ErrNotFound) {
		r.metrics.IncrementResolve("miss")
		return nil, dErrors.New(dErrors.CodeNotFound, "no passport found for asset id")
	}
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "read passport anchor")
	}

	if onChain.Name != anchor.PassportName || onChain.UnitName != anchor.PassportUnitLabel {
		r.metrics.IncrementResolve("miss")
		return nil, dErrors.New(dErrors.CodeNotFound, "anchor is not a career passport")
	}

	rec := &HolderRecord{
		AssetID: assetID,
		OnChain: true,
		Credentials: Credentials{
			Employment: []*credential.Employment{},
			Education:  []*credential.Education{},
		},
	}
	r.cache.Add(assetID, rec.Clone())
	r.metrics.IncrementResolve("ledger")
	r.logger.InfoContext(ctx, "passport resolved from ledger", "asset_id", assetID)
	return rec, nil
}

// AppendCredential publishes the credential's canonical content and records
// it in the passport's on-chain credential index. The passport must be backed
// by an application; bare anchors cannot index credentials.
//
// Returns the transaction id of the index update.
func (r *Registry) AppendCredential(ctx context.Context, owner string, holder *HolderRecord, rec credential.Record) (string, error) {
	ctx, span := r.tracer.Start(ctx, "passport.append_credential")
	defer span.End()

	if holder == nil || holder.AssetID == 0 {
		return "", dErrors.New(dErrors.CodeValidation, "passport record is required")
	}
	if holder.AppID == 0 {
		return "", dErrors.New(dErrors.CodePrecondition, "passport has no backing application")
	}

	canonical, hashHex, err := credential.Canonicalize(rec)
	if err != nil {
		return "", err
	}

	loc := r.publisher.Publish(ctx, canonical, hashHex, rec.Meta().ID)

	txID, err := r.transport.CallApplication(ctx, owner, holder.AppID, [][]byte{
		[]byte(AddCredentialInstruction),
		[]byte(loc.String()),
		[]byte(rec.Meta().Type),
	})
	if err != nil {
		span.RecordError(err)
		return "", dErrors.Wrap(err, dErrors.CodeTransport, "record credential in passport index")
	}

	r.logger.InfoContext(ctx, "credential appended to passport",
		"asset_id", holder.AssetID,
		"app_id", holder.AppID,
		"credential_id", rec.Meta().ID,
		"tx_id", txID,
	)
	return txID, nil
}
