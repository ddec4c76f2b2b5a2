package content

import "context"

// Transport is the content-addressed store the publisher and verifier talk
// to. Implementations must store payload bytes verbatim: content addressing
// is what lets verification hash exactly what was published.
type Transport interface {
	// PublishJSON pins the payload and returns its content id (a CID).
	// Republishing identical bytes is safe; content addressing deduplicates.
	PublishJSON(ctx context.Context, payload []byte, name string) (string, error)

	// Fetch dereferences a content id back into the stored bytes.
	Fetch(ctx context.Context, contentID string) ([]byte, error)
}
