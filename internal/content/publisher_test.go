package content

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTransport struct{}

func (failingTransport) PublishJSON(context.Context, []byte, string) (string, error) {
	return "", errors.New("pin service down")
}

func (failingTransport) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("pin service down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPublishRemote(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, discardLogger(), nil)

	payload := []byte(`{"type":"employment","company":"Acme"}`)
	loc := p.Publish(context.Background(), payload, "abc123", "employment-jane")

	assert.Equal(t, KindRemote, loc.Kind)
	assert.Equal(t, "abc123", loc.HashHex)
	assert.Contains(t, loc.URI, RemoteScheme)

	fetched, err := store.Fetch(context.Background(), loc.ContentID())
	require.NoError(t, err)
	assert.Equal(t, payload, fetched)
}

func TestPublishIdenticalBytesDeduplicates(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, discardLogger(), nil)

	payload := []byte(`{"type":"education"}`)
	loc1 := p.Publish(context.Background(), payload, "h", "a")
	loc2 := p.Publish(context.Background(), payload, "h", "b")

	assert.Equal(t, loc1.URI, loc2.URI)
}

func TestPublishFallsBackInline(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		p := NewPublisher(failingTransport{}, discardLogger(), nil)

		payload := []byte(`{"type":"employment"}`)
		loc := p.Publish(context.Background(), payload, "abc123", "n")

		assert.Equal(t, KindInline, loc.Kind)
		assert.Equal(t, payload, loc.Inline)
		assert.Equal(t, "abc123", loc.HashHex)
	})

	t.Run("nil transport", func(t *testing.T) {
		p := NewPublisher(nil, discardLogger(), nil)

		loc := p.Publish(context.Background(), []byte(`{}`), "abc123", "n")

		assert.Equal(t, KindInline, loc.Kind)
		assert.Equal(t, "abc123", loc.HashHex)
	})
}

func TestParseAnchorURL(t *testing.T) {
	t.Run("remote", func(t *testing.T) {
		loc := ParseAnchorURL("ipfs://bafyexample")
		assert.Equal(t, KindRemote, loc.Kind)
		assert.Equal(t, "bafyexample", loc.ContentID())
	})

	t.Run("inline", func(t *testing.T) {
		loc := ParseAnchorURL(`{"type":"employment"}`)
		assert.Equal(t, KindInline, loc.Kind)
		assert.Equal(t, []byte(`{"type":"employment"}`), loc.Inline)
	})
}
