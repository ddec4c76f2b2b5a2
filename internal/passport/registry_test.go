package passport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verifyhr/internal/anchor"
	"verifyhr/internal/content"
	"verifyhr/internal/credential"
	"verifyhr/internal/ledger"
	dErrors "verifyhr/pkg/domain-errors"
)

const owner = "ISSUER7XAMPLEADDRESS"

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func inlinePublisher() *content.Publisher {
	return content.NewPublisher(nil, testLogger(), nil)
}

// countingLedger counts reads so cache behavior is observable.
type countingLedger struct {
	*ledger.InMemoryLedger
	reads atomic.Int64
}

func (l *countingLedger) GetRecordByID(ctx context.Context, recordID uint64) (*ledger.Record, error) {
	l.reads.Add(1)
	return l.InMemoryLedger.GetRecordByID(ctx, recordID)
}

func mintPassportAnchor(t *testing.T, l ledger.Transport) uint64 {
	t.Helper()
	hash := make([]byte, 32)
	id, err := l.CreateUniqueRecord(context.Background(), owner, anchor.PassportName, anchor.PassportUnitLabel, "", hash)
	require.NoError(t, err)
	return id
}

func sampleEmployment(t *testing.T, start string) *credential.Employment {
	t.Helper()
	return credential.NewEmployment(credential.EmploymentInput{
		EmployeeName: "Dana Osei",
		EmployeeID:   "E-104",
		Company:      "Acme Corp",
		Role:         "Engineer",
		StartDate:    start,
	}, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
}

func TestResolvePrefersCandidateIndex(t *testing.T) {
	l := &countingLedger{InMemoryLedger: ledger.NewInMemoryLedger()}
	assetID := mintPassportAnchor(t, l)

	index := NewInMemoryIndex()
	require.NoError(t, index.Save(context.Background(), &HolderRecord{
		AssetID:  assetID,
		AppID:    77,
		FullName: "Dana Osei",
		Credentials: Credentials{
			Employment: []*credential.Employment{sampleEmployment(t, "2020-01-15")},
		},
	}))

	r := NewRegistry(index, l, inlinePublisher(), testLogger(), nil)

	rec, err := r.Resolve(context.Background(), assetID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Osei", rec.FullName, "the indexed record is richer and must win over the ledger")
	assert.Equal(t, uint64(77), rec.AppID)
	assert.Len(t, rec.Credentials.Employment, 1)
	assert.Equal(t, int64(0), l.reads.Load(), "an index hit must not touch the ledger")
}

func TestResolveLedgerFallback(t *testing.T) {
	l := &countingLedger{InMemoryLedger: ledger.NewInMemoryLedger()}
	assetID := mintPassportAnchor(t, l)

	r := NewRegistry(NewInMemoryIndex(), l, inlinePublisher(), testLogger(), nil)

	rec, err := r.Resolve(context.Background(), assetID)
	require.NoError(t, err)
	assert.True(t, rec.OnChain)
	assert.Empty(t, rec.FullName)
	assert.NotNil(t, rec.Credentials.Employment)
	assert.Empty(t, rec.Credentials.Employment)
	assert.Equal(t, int64(1), l.reads.Load())

	// Second resolve is served from the fallback cache.
	again, err := r.Resolve(context.Background(), assetID)
	require.NoError(t, err)
	assert.Equal(t, rec.AssetID, again.AssetID)
	assert.Equal(t, int64(1), l.reads.Load(), "cached resolution must not re-read the ledger")
}

func TestResolveNotFound(t *testing.T) {
	l := ledger.NewInMemoryLedger()
	r := NewRegistry(NewInMemoryIndex(), l, inlinePublisher(), testLogger(), nil)

	t.Run("unknown asset id", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), 424242)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("anchor with foreign schema", func(t *testing.T) {
		id, err := l.CreateUniqueRecord(context.Background(), owner, "SomeToken", "TOK", "", make([]byte, 32))
		require.NoError(t, err)

		_, err = r.Resolve(context.Background(), id)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("zero asset id", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), 0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestAppendCredential(t *testing.T) {
	l := ledger.NewInMemoryLedger()
	assetID := mintPassportAnchor(t, l)
	r := NewRegistry(NewInMemoryIndex(), l, inlinePublisher(), testLogger(), nil)

	holder := &HolderRecord{AssetID: assetID, AppID: 77}
	rec := sampleEmployment(t, "2021-03-01")

	txID, err := r.AppendCredential(context.Background(), owner, holder, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, txID)

	calls := l.AppCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, owner, calls[0].Sender)
	assert.Equal(t, uint64(77), calls[0].AppID)
	require.Len(t, calls[0].Args, 3)
	assert.Equal(t, AddCredentialInstruction, string(calls[0].Args[0]))
	assert.Equal(t, string(credential.TypeEmployment), string(calls[0].Args[2]))

	// With no content transport the locator argument is the canonical JSON
	// itself, which must hash to the credential's content hash.
	canonical, hashHex, err := credential.Canonicalize(rec)
	require.NoError(t, err)
	assert.Equal(t, string(canonical), string(calls[0].Args[1]))
	assert.Equal(t, hashHex, credential.HashBytes(calls[0].Args[1]))
}

func TestAppendCredentialRequiresApplication(t *testing.T) {
	l := ledger.NewInMemoryLedger()
	r := NewRegistry(NewInMemoryIndex(), l, inlinePublisher(), testLogger(), nil)

	_, err := r.AppendCredential(context.Background(), owner, &HolderRecord{AssetID: 5}, sampleEmployment(t, "2021-03-01"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePrecondition))
	assert.Empty(t, l.AppCalls())
}

func TestAppendCredentialTransportFailure(t *testing.T) {
	l := ledger.NewInMemoryLedger()
	l.CallErr = errors.New("node unreachable")
	r := NewRegistry(NewInMemoryIndex(), l, inlinePublisher(), testLogger(), nil)

	_, err := r.AppendCredential(context.Background(), owner, &HolderRecord{AssetID: 5, AppID: 77}, sampleEmployment(t, "2021-03-01"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTransport))
}

func TestSortForPresentation(t *testing.T) {
	h := &HolderRecord{
		Credentials: Credentials{
			Employment: []*credential.Employment{
				sampleEmployment(t, "2018-06-01"),
				sampleEmployment(t, "2022-09-15"),
				sampleEmployment(t, "2020-01-15"),
			},
		},
	}

	h.SortForPresentation()

	starts := []string{
		h.Credentials.Employment[0].StartDate,
		h.Credentials.Employment[1].StartDate,
		h.Credentials.Employment[2].StartDate,
	}
	assert.Equal(t, []string{"2018-06-01", "2020-01-15", "2022-09-15"}, starts)
}

func TestHolderRecordJSONRoundTrip(t *testing.T) {
	rec := &HolderRecord{
		AssetID:  1234,
		AppID:    77,
		FullName: "Dana Osei",
		Credentials: Credentials{
			Employment: []*credential.Employment{sampleEmployment(t, "2020-01-15")},
			Education:  []*credential.Education{},
		},
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var got HolderRecord
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, rec.AssetID, got.AssetID)
	require.Len(t, got.Credentials.Employment, 1)
	assert.Equal(t, rec.Credentials.Employment[0].Meta(), got.Credentials.Employment[0].Meta())
	assert.Equal(t, "Acme Corp", got.Credentials.Employment[0].Company)
}
