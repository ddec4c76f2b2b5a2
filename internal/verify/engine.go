package verify

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"verifyhr/internal/audit"
	"verifyhr/internal/content"
	"verifyhr/internal/credential"
	"verifyhr/internal/ledger"
	"verifyhr/internal/platform/metrics"
	dErrors "verifyhr/pkg/domain-errors"
	"verifyhr/pkg/platform/sentinel"
)

// Result is the outcome of a conclusive verification. Valid reports whether
// the fetched content hashes to the anchor's commitment; everything else is
// presentation.
//
// Inconclusive verifications (content unreachable) are errors, not Results:
// "could not check" must never read as "checked and failed".
type Result struct {
	AssetID      uint64 `json:"assetId"`
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	ComputedHash string `json:"computedHash"`
	ExpectedHash string `json:"expectedHash"`

	// PayloadUnrecognized is set when the hash matched but the content does
	// not parse as a known credential shape. Integrity holds regardless.
	PayloadUnrecognized bool `json:"payloadUnrecognized,omitempty"`

	Employment *EmploymentView `json:"employment,omitempty"`
	Education  *EducationView  `json:"education,omitempty"`
}

// Engine checks anchored content against its on-chain commitment.
type Engine struct {
	ledger  ledger.Transport
	fetcher content.Transport
	gateway string
	audit   *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewEngine builds a verification engine. fetcher may be nil when no remote
// gateway is configured; remote locators are then inconclusive. auditPub may
// be nil to disable the audit trail.
func NewEngine(l ledger.Transport, fetcher content.Transport, gateway string, auditPub *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		ledger:  l,
		fetcher: fetcher,
		gateway: gateway,
		audit:   auditPub,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("verifyhr/verify"),
	}
}

// Verify reads the anchor, obtains the content its URL points at, and
// compares the content's hash with the anchor's commitment.
//
// The hash comparison runs on the raw fetched bytes before any parsing, so
// integrity checking never depends on schema recognition. A mismatch is a
// conclusive negative Result; a fetch failure is an error.
func (e *Engine) Verify(ctx context.Context, assetID uint64) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "verify.check")
	defer span.End()

	rec, err := e.ledger.GetRecordByID(ctx, assetID)
	if errors.Is(err, sentinel.ErrNotFound) {
		e.metrics.IncrementVerify("not_found")
		return nil, dErrors.New(dErrors.CodeNotFound, "no anchor found for asset id")
	}
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "read anchor record")
	}

	body, err := e.loadContent(ctx, rec)
	if err != nil {
		e.metrics.IncrementVerify("inconclusive")
		span.RecordError(err)
		return nil, err
	}

	res := &Result{
		AssetID:      assetID,
		ComputedHash: credential.HashBytes(body),
		ExpectedHash: hex.EncodeToString(rec.MetadataHash),
	}

	if res.ComputedHash != res.ExpectedHash {
		res.Reason = "hash mismatch"
		e.metrics.IncrementVerify("mismatch")
		e.audit.Emit(ctx, audit.Event{
			Action:  audit.ActionCredentialVerified,
			AssetID: assetID,
			Detail:  "mismatch",
		})
		e.logger.WarnContext(ctx, "verification mismatch",
			"asset_id", assetID,
			"computed", res.ComputedHash,
			"expected", res.ExpectedHash,
		)
		return res, nil
	}
	res.Valid = true
	e.metrics.IncrementVerify("match")
	e.audit.Emit(ctx, audit.Event{
		Action:  audit.ActionCredentialVerified,
		AssetID: assetID,
		Detail:  "match",
	})

	parsed, err := credential.Parse(body)
	if err != nil {
		// Unknown shape with a matching hash: integrity holds, there is just
		// nothing curated to show.
		res.PayloadUnrecognized = true
		return res, nil
	}
	switch c := parsed.(type) {
	case *credential.Employment:
		res.Employment = employmentView(c, e.gateway)
	case *credential.Education:
		res.Education = educationView(c, e.gateway)
	}
	return res, nil
}

func (e *Engine) loadContent(ctx context.Context, rec *ledger.Record) ([]byte, error) {
	loc := content.ParseAnchorURL(rec.URL)
	if loc.Kind == content.KindInline {
		return loc.Inline, nil
	}

	if e.fetcher == nil {
		return nil, dErrors.New(dErrors.CodeFetch, "no content gateway configured for remote locator")
	}
	body, err := e.fetcher.Fetch(ctx, loc.ContentID())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeFetch, "fetch anchored content")
	}
	return body, nil
}
