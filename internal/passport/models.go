package passport

import (
	"sort"

	"verifyhr/internal/credential"
)

// HolderRecord is a career passport as the registry serves it: the anchor id
// it resolves under, the application backing its on-chain credential index,
// and the credentials grouped per variant.
//
// A record synthesized from a bare ledger anchor has no name, no application
// and empty credential lists; OnChain distinguishes it from a locally indexed
// candidate.
type HolderRecord struct {
	AssetID     uint64      `json:"assetId"`
	AppID       uint64      `json:"appId,omitempty"`
	FullName    string      `json:"fullName,omitempty"`
	Credentials Credentials `json:"credentials"`
	OnChain     bool        `json:"onChain"`
}

// Credentials holds a passport's credentials grouped by variant.
type Credentials struct {
	Employment []*credential.Employment `json:"employment"`
	Education  []*credential.Education  `json:"education"`
}

// SortForPresentation orders both credential lists ascending by start date.
// Lexicographic comparison of YYYY-MM-DD dates is chronological, and the sort
// is stable so same-day credentials keep their insertion order. Only the
// presented order changes; ledger-side storage is append-only and untouched.
func (h *HolderRecord) SortForPresentation() {
	sort.SliceStable(h.Credentials.Employment, func(i, j int) bool {
		return h.Credentials.Employment[i].StartDate < h.Credentials.Employment[j].StartDate
	})
	sort.SliceStable(h.Credentials.Education, func(i, j int) bool {
		return h.Credentials.Education[i].StartDate < h.Credentials.Education[j].StartDate
	})
}

// Clone returns a deep-enough copy for handing out of a store: slices are
// copied, credential records are shared (they are never mutated after issue).
func (h *HolderRecord) Clone() *HolderRecord {
	if h == nil {
		return nil
	}
	out := *h
	out.Credentials.Employment = append([]*credential.Employment(nil), h.Credentials.Employment...)
	out.Credentials.Education = append([]*credential.Education(nil), h.Credentials.Education...)
	return &out
}
