package config

import "time"

// Config carries process-level configuration. Values are populated by the CLI
// flags in cmd/server (env-backed) so main stays lean.
type Config struct {
	Addr string

	// IssuerAddress is the ledger address credentials and passports are
	// minted from. The signer capability for it lives in the ledger
	// transport, never here.
	IssuerAddress string

	// Content-addressed store. When PinToken is empty the publisher degrades
	// to inline locators without attempting a remote pin.
	PinEndpoint string
	PinToken    string
	IPFSGateway string

	// Candidate index backends. Empty URL disables the backend; the in-memory
	// index is always available.
	RedisURL    string
	PostgresURL string

	// Audit sink. Empty brokers means events stay on the in-process store.
	KafkaBrokers []string
	KafkaTopic   string

	JWTSigningKey     string
	AdminPasswordHash string
}

// RegistryCacheTTL bounds how long a synthesized on-chain holder record may be
// served from the registry cache. Ledger records are immutable, so this only
// limits memory, not staleness of commitments.
var RegistryCacheTTL = 5 * time.Minute
