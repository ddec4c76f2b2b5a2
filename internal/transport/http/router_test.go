package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"verifyhr/internal/anchor"
	"verifyhr/internal/audit"
	"verifyhr/internal/content"
	"verifyhr/internal/issuance"
	"verifyhr/internal/jwt_token"
	"verifyhr/internal/ledger"
	"verifyhr/internal/passport"
	"verifyhr/internal/platform/metrics"
	"verifyhr/internal/verify"
)

const (
	issuer        = "ISSUER7XAMPLEADDRESS"
	adminPassword = "test-admin-password"
)

type env struct {
	server *httptest.Server
	token  string
	ledger *ledger.InMemoryLedger
	index  *passport.InMemoryIndex
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	l := ledger.NewInMemoryLedger()
	store := content.NewInMemoryStore()
	index := passport.NewInMemoryIndex()

	// Nil metrics: methods are nil-safe, and registering the collectors once
	// per test would collide on the default registry.
	var m *metrics.Metrics

	publisher := content.NewPublisher(store, logger, m)
	minter := anchor.NewMinter(l, logger, m, nil)
	registry := passport.NewRegistry(index, l, publisher, logger, m)
	auditPub := audit.NewPublisher(64, logger)
	engine := verify.NewEngine(l, store, "https://gateway.example/ipfs", auditPub, logger, m)
	svc := issuance.NewService(minter, registry, publisher, auditPub, logger, issuer)

	jwtSvc := jwttoken.NewJWTService("test-signing-key", "verifyhr")
	token, err := jwtSvc.GenerateToken("issuer-ops", time.Minute)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	router := NewRouter(RouterArgs{
		Issuance:          svc,
		Registry:          registry,
		Verifier:          engine,
		Index:             index,
		Logger:            logger,
		Metrics:           m,
		JWTValidator:      jwttoken.NewJWTServiceAdapter(jwtSvc),
		AdminPasswordHash: string(hash),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &env{server: server, token: token, ledger: l, index: index}
}

func (e *env) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *env) authed(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+e.token)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreatePassportEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/passport", map[string]string{
		"fullName":       "Dana Osei",
		"dateOfBirth":    "1990-04-12",
		"documentNumber": "AB1234567",
	}, e.authed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := decode[issuance.PassportResult](t, resp)
	assert.NotZero(t, res.AssetID)
	assert.Len(t, res.Fingerprint, 64)
}

func TestCreatePassportRejections(t *testing.T) {
	e := newEnv(t)

	t.Run("missing token", func(t *testing.T) {
		resp := e.do(t, http.MethodPost, "/passport", map[string]string{"fullName": "Dana Osei"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bad date", func(t *testing.T) {
		resp := e.do(t, http.MethodPost, "/passport", map[string]string{
			"fullName":       "Dana Osei",
			"dateOfBirth":    "12/04/1990",
			"documentNumber": "AB1234567",
		}, e.authed)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty name", func(t *testing.T) {
		resp := e.do(t, http.MethodPost, "/passport", map[string]string{
			"fullName":       "   ",
			"dateOfBirth":    "1990-04-12",
			"documentNumber": "AB1234567",
		}, e.authed)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestIssueAndVerifyEndToEnd(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/credentials/issue", map[string]string{
		"type":         "employment",
		"employeeName": "Dana Osei",
		"company":      "Acme Corp",
		"role":         "Engineer",
		"startDate":    "2020-01-15",
		"endDate":      "2023-06-30",
	}, e.authed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	issued := decode[issuance.CredentialResult](t, resp)
	assert.False(t, issued.Inline, "content store is configured, publish goes remote")

	resp = e.do(t, http.MethodGet, fmt.Sprintf("/verify/%d", issued.AssetID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[verify.Result](t, resp)
	assert.True(t, res.Valid)
	require.NotNil(t, res.Employment)
	assert.Equal(t, "Acme Corp", res.Employment.Company)
}

func TestVerifyEndpointNotFound(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/verify/424242", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/verify/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResolveAndAppendFlow(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/passport", map[string]string{
		"fullName":       "Dana Osei",
		"dateOfBirth":    "1990-04-12",
		"documentNumber": "AB1234567",
	}, e.authed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[issuance.PassportResult](t, resp)

	// Bare on-chain passport resolves to a minimal record.
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/passport/%d", created.AssetID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[passport.HolderRecord](t, resp)
	assert.True(t, rec.OnChain)
	assert.Zero(t, rec.AppID)

	// Appending needs a backing application, seeded by an operator.
	resp = e.do(t, http.MethodPost, fmt.Sprintf("/passport/%d/credentials", created.AssetID), map[string]string{
		"type":         "employment",
		"employeeName": "Dana Osei",
		"company":      "Acme Corp",
		"role":         "Engineer",
		"startDate":    "2020-01-15",
	}, e.authed)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	seed := func(req *http.Request) { req.SetBasicAuth("admin", adminPassword) }
	resp = e.do(t, http.MethodPost, "/admin/candidates", passport.HolderRecord{
		AssetID:  created.AssetID,
		AppID:    77,
		FullName: "Dana Osei",
	}, seed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPost, fmt.Sprintf("/passport/%d/credentials", created.AssetID), map[string]string{
		"type":         "employment",
		"employeeName": "Dana Osei",
		"company":      "Acme Corp",
		"role":         "Engineer",
		"startDate":    "2020-01-15",
	}, e.authed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	appended := decode[issuance.AppendResult](t, resp)
	assert.NotEmpty(t, appended.TransactionID)

	calls := e.ledger.AppCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, uint64(77), calls[0].AppID)
}

func TestAdminEndpointRejectsBadPassword(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/admin/candidates", passport.HolderRecord{AssetID: 1},
		func(req *http.Request) { req.SetBasicAuth("admin", "wrong") })
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
