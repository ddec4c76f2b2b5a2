package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verifyhr/internal/passport"
	"verifyhr/internal/platform/metrics"
	"verifyhr/internal/platform/middleware"
)

// RouterArgs carries everything the router wires together.
type RouterArgs struct {
	Issuance          IssuanceService
	Registry          Resolver
	Verifier          Verifier
	Index             passport.IndexStore
	Logger            *slog.Logger
	Metrics           *metrics.Metrics
	JWTValidator      middleware.JWTValidator
	AdminPasswordHash string
}

// NewRouter assembles the full HTTP surface.
func NewRouter(args RouterArgs) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(args.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(args.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(args.Metrics))

	NewIssuanceHandler(args.Issuance, args.Logger, args.JWTValidator).Register(r)
	NewRegistryHandler(args.Registry, args.Verifier, args.Logger).Register(r)
	if args.Index != nil && args.AdminPasswordHash != "" {
		NewAdminHandler(args.Index, args.Logger, args.AdminPasswordHash).Register(r)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
