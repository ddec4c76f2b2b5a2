package audit

import "time"

// Actions recorded by the issuance and verification flows.
const (
	ActionPassportCreated    = "passport.created"
	ActionCredentialIssued   = "credential.issued"
	ActionCredentialLinked   = "credential.linked"
	ActionCredentialVerified = "credential.verified"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	Actor        string    `json:"actor,omitempty"`
	AssetID      uint64    `json:"assetId,omitempty"`
	CredentialID string    `json:"credentialId,omitempty"`
	Detail       string    `json:"detail,omitempty"`
}
