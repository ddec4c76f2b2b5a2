package content

import (
	"context"
	"log/slog"

	"verifyhr/internal/platform/metrics"
)

// Publisher pushes canonical credential bytes to the content-addressed store.
// Publish failure is never fatal to issuance: the hash (the security-relevant
// artifact) is computed before this step, so failure only degrades storage to
// the inline branch with a logged warning.
type Publisher struct {
	transport Transport
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewPublisher builds a publisher. A nil transport is allowed and means
// "no pinning credentials configured": every publish takes the inline branch.
func NewPublisher(transport Transport, logger *slog.Logger, metrics *metrics.Metrics) *Publisher {
	return &Publisher{
		transport: transport,
		logger:    logger,
		metrics:   metrics,
	}
}

// Publish attempts a remote pin and degrades to an inline locator on any
// failure. The returned locator always carries hashHex, whichever branch was
// taken.
func (p *Publisher) Publish(ctx context.Context, canonical []byte, hashHex, name string) Locator {
	if p.transport == nil {
		p.logger.WarnContext(ctx, "no content transport configured, using inline locator", "name", name)
		p.metrics.IncrementPublish("inline")
		return InlineLocator(canonical, hashHex)
	}

	contentID, err := p.transport.PublishJSON(ctx, canonical, name)
	if err != nil {
		p.logger.WarnContext(ctx, "content publish failed, using inline locator",
			"name", name,
			"error", err,
		)
		p.metrics.IncrementPublish("inline")
		return InlineLocator(canonical, hashHex)
	}

	p.metrics.IncrementPublish("remote")
	return Remote(RemoteScheme+contentID, hashHex)
}
