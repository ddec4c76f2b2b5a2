package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the anchoring and verification engine.
// All methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	// Anchors minted by unit label ("verifyCP", "vHR").
	AnchorsMinted *prometheus.CounterVec

	// Content publish outcomes by branch ("remote", "inline").
	PublishOutcome *prometheus.CounterVec

	// Post-mint opt-in failures (non-fatal warnings).
	OptInFailures prometheus.Counter

	// Verification outcomes ("match", "mismatch", "not_found", "inconclusive").
	VerifyOutcome *prometheus.CounterVec

	// Registry resolutions by source ("index", "ledger", "cache", "miss").
	ResolveSource *prometheus.CounterVec

	// HTTP request latency by route.
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers all engine metrics.
func New() *Metrics {
	return &Metrics{
		AnchorsMinted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyhr_anchors_minted_total",
			Help: "Total anchor records minted by unit label",
		}, []string{"unit"}),

		PublishOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyhr_content_publish_total",
			Help: "Content publish outcomes by locator branch",
		}, []string{"branch"}),

		OptInFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifyhr_optin_failures_total",
			Help: "Automatic post-mint opt-in attempts that failed",
		}),

		VerifyOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyhr_verifications_total",
			Help: "Verification outcomes",
		}, []string{"outcome"}),

		ResolveSource: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyhr_registry_resolutions_total",
			Help: "Passport registry resolutions by answering source",
		}, []string{"source"}),

		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verifyhr_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
	}
}

// IncrementAnchorMinted records a successful mint.
func (m *Metrics) IncrementAnchorMinted(unit string) {
	if m != nil {
		m.AnchorsMinted.WithLabelValues(unit).Inc()
	}
}

// IncrementPublish records a publish outcome branch.
func (m *Metrics) IncrementPublish(branch string) {
	if m != nil {
		m.PublishOutcome.WithLabelValues(branch).Inc()
	}
}

// IncrementOptInFailure records a failed automatic opt-in.
func (m *Metrics) IncrementOptInFailure() {
	if m != nil {
		m.OptInFailures.Inc()
	}
}

// IncrementVerify records a verification outcome.
func (m *Metrics) IncrementVerify(outcome string) {
	if m != nil {
		m.VerifyOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementResolve records which source answered a registry resolution.
func (m *Metrics) IncrementResolve(source string) {
	if m != nil {
		m.ResolveSource.WithLabelValues(source).Inc()
	}
}

// ObserveRequestLatency records HTTP handler latency.
func (m *Metrics) ObserveRequestLatency(route string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route).Observe(d.Seconds())
	}
}
