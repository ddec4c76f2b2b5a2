package issuance

import (
	"context"
	"log/slog"
	"time"

	"verifyhr/internal/anchor"
	"verifyhr/internal/audit"
	"verifyhr/internal/content"
	"verifyhr/internal/credential"
	"verifyhr/internal/identity"
	"verifyhr/internal/passport"
)

// Anchor display names per credential variant.
const (
	EmploymentAnchorName = "Employment Credential"
	EducationAnchorName  = "Education Credential"
)

// Service orchestrates the issuance flows: derive the identity fingerprint
// and mint a passport anchor, or canonicalize/publish/mint a credential. It
// owns no state; every step delegates to the component that carries the
// relevant invariant.
type Service struct {
	minter    *anchor.Minter
	registry  *passport.Registry
	publisher *content.Publisher
	audit     *audit.Publisher
	logger    *slog.Logger
	issuer    string
	now       func() time.Time
}

// NewService builds the issuance service. issuer is the owner address used
// for every ledger write.
func NewService(minter *anchor.Minter, registry *passport.Registry, publisher *content.Publisher, auditPub *audit.Publisher, logger *slog.Logger, issuer string) *Service {
	return &Service{
		minter:    minter,
		registry:  registry,
		publisher: publisher,
		audit:     auditPub,
		logger:    logger,
		issuer:    issuer,
		now:       time.Now,
	}
}

// PassportResult reports a freshly minted career passport.
type PassportResult struct {
	AssetID     uint64 `json:"assetId"`
	Fingerprint string `json:"fingerprint"`
}

// CreatePassport derives the holder's identity fingerprint and mints the
// passport anchor committing to it. The raw identity attributes are consumed
// here and never stored or published; only the fingerprint leaves this call.
func (s *Service) CreatePassport(ctx context.Context, attrs identity.Attributes) (*PassportResult, error) {
	fp, err := identity.DeriveFingerprint(attrs)
	if err != nil {
		return nil, err
	}

	// The passport commits to the fingerprint directly. There is no published
	// content behind it, so the anchor URL stays empty.
	loc := content.Locator{Kind: content.KindInline, HashHex: string(fp)}
	rec, err := s.minter.Mint(ctx, s.issuer, anchor.PassportName, anchor.PassportUnitLabel, loc)
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{
		Action:  audit.ActionPassportCreated,
		Actor:   s.issuer,
		AssetID: rec.ID,
	})
	return &PassportResult{AssetID: rec.ID, Fingerprint: string(fp)}, nil
}

// CredentialResult reports a freshly issued credential anchor.
type CredentialResult struct {
	AssetID      uint64 `json:"assetId"`
	CredentialID string `json:"credentialId"`
	ContentHash  string `json:"contentHash"`
	Locator      string `json:"locator"`
	Inline       bool   `json:"inline"`
}

// IssueEmployment issues a standalone employment credential anchor.
func (s *Service) IssueEmployment(ctx context.Context, in credential.EmploymentInput) (*CredentialResult, error) {
	return s.issue(ctx, credential.NewEmployment(in, s.now()), EmploymentAnchorName)
}

// IssueEducation issues a standalone education credential anchor.
func (s *Service) IssueEducation(ctx context.Context, in credential.EducationInput) (*CredentialResult, error) {
	return s.issue(ctx, credential.NewEducation(in, s.now()), EducationAnchorName)
}

func (s *Service) issue(ctx context.Context, rec credential.Record, name string) (*CredentialResult, error) {
	canonical, hashHex, err := credential.Canonicalize(rec)
	if err != nil {
		return nil, err
	}

	loc := s.publisher.Publish(ctx, canonical, hashHex, rec.Meta().ID)

	minted, err := s.minter.Mint(ctx, s.issuer, name, anchor.CredentialUnitLabel, loc)
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{
		Action:       audit.ActionCredentialIssued,
		Actor:        s.issuer,
		AssetID:      minted.ID,
		CredentialID: rec.Meta().ID,
	})
	return &CredentialResult{
		AssetID:      minted.ID,
		CredentialID: rec.Meta().ID,
		ContentHash:  hashHex,
		Locator:      loc.String(),
		Inline:       loc.Kind == content.KindInline,
	}, nil
}

// AppendResult reports a credential linked into a passport's on-chain index.
type AppendResult struct {
	CredentialID  string `json:"credentialId"`
	TransactionID string `json:"txId"`
}

// AppendEmployment links a new employment credential to an existing passport.
func (s *Service) AppendEmployment(ctx context.Context, assetID uint64, in credential.EmploymentInput) (*AppendResult, error) {
	return s.append(ctx, assetID, credential.NewEmployment(in, s.now()))
}

// AppendEducation links a new education credential to an existing passport.
func (s *Service) AppendEducation(ctx context.Context, assetID uint64, in credential.EducationInput) (*AppendResult, error) {
	return s.append(ctx, assetID, credential.NewEducation(in, s.now()))
}

func (s *Service) append(ctx context.Context, assetID uint64, rec credential.Record) (*AppendResult, error) {
	holder, err := s.registry.Resolve(ctx, assetID)
	if err != nil {
		return nil, err
	}

	txID, err := s.registry.AppendCredential(ctx, s.issuer, holder, rec)
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{
		Action:       audit.ActionCredentialLinked,
		Actor:        s.issuer,
		AssetID:      assetID,
		CredentialID: rec.Meta().ID,
		Detail:       txID,
	})
	return &AppendResult{CredentialID: rec.Meta().ID, TransactionID: txID}, nil
}
