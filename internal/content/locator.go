package content

import "strings"

// RemoteScheme prefixes remote content-addressed locators.
const RemoteScheme = "ipfs://"

// Kind tags the locator variant.
type Kind string

const (
	KindRemote Kind = "remote"
	KindInline Kind = "inline"
)

// Locator points at published credential content: either a remote
// content-addressed URI or, when publishing degraded, the canonical bytes
// themselves. The content hash rides along on both branches so verification
// is uniform; only fetch cost differs.
//
// Modeled as a tagged variant rather than a nullable URI so downstream code
// has to handle both branches.
type Locator struct {
	Kind    Kind
	URI     string // remote only: "ipfs://<cid>"
	Inline  []byte // inline only: the canonical bytes
	HashHex string
}

// Remote builds a remote locator.
func Remote(uri, hashHex string) Locator {
	return Locator{Kind: KindRemote, URI: uri, HashHex: hashHex}
}

// InlineLocator builds an inline fallback locator.
func InlineLocator(b []byte, hashHex string) Locator {
	return Locator{Kind: KindInline, Inline: b, HashHex: hashHex}
}

// String renders the value stored in the anchor record's URL field: the URI
// for remote locators, the raw canonical JSON for inline ones.
func (l Locator) String() string {
	if l.Kind == KindRemote {
		return l.URI
	}
	return string(l.Inline)
}

// ParseAnchorURL reads an anchor record's URL field back into a locator. The
// hash is not recoverable from the URL; verification takes it from the
// anchor's commitment instead.
func ParseAnchorURL(url string) Locator {
	if strings.HasPrefix(url, RemoteScheme) {
		return Locator{Kind: KindRemote, URI: url}
	}
	return Locator{Kind: KindInline, Inline: []byte(url)}
}

// ContentID strips the scheme from a remote locator URI.
func (l Locator) ContentID() string {
	return strings.TrimPrefix(l.URI, RemoteScheme)
}
