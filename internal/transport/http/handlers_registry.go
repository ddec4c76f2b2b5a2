package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"verifyhr/internal/passport"
	"verifyhr/internal/platform/middleware"
	"verifyhr/internal/transport/http/shared"
	"verifyhr/internal/verify"
	dErrors "verifyhr/pkg/domain-errors"
)

// Resolver defines the registry lookup the handler needs.
type Resolver interface {
	Resolve(ctx context.Context, assetID uint64) (*passport.HolderRecord, error)
}

// Verifier defines the verification operation the handler needs.
type Verifier interface {
	Verify(ctx context.Context, assetID uint64) (*verify.Result, error)
}

// RegistryHandler handles the public read endpoints: passport resolution and
// credential verification. No authentication; anyone holding an asset id may
// check it.
type RegistryHandler struct {
	registry Resolver
	verifier Verifier
	logger   *slog.Logger
}

// NewRegistryHandler creates the registry handler.
func NewRegistryHandler(registry Resolver, verifier Verifier, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{
		registry: registry,
		verifier: verifier,
		logger:   logger,
	}
}

// Register registers the public routes.
func (h *RegistryHandler) Register(r chi.Router) {
	r.Get("/passport/{assetID}", h.handleResolve)
	r.Get("/verify/{assetID}", h.handleVerify)
}

func (h *RegistryHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assetID, err := strconv.ParseUint(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "asset id must be numeric"))
		return
	}

	rec, err := h.registry.Resolve(ctx, assetID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.WarnContext(ctx, "passport resolution failed",
				"request_id", middleware.GetRequestID(ctx),
				"asset_id", assetID,
				"error", err,
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rec)
}

func (h *RegistryHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assetID, err := strconv.ParseUint(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "asset id must be numeric"))
		return
	}

	res, err := h.verifier.Verify(ctx, assetID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.WarnContext(ctx, "verification errored",
				"request_id", middleware.GetRequestID(ctx),
				"asset_id", assetID,
				"error", err,
			)
		}
		shared.WriteError(w, err)
		return
	}
	// A mismatch is still HTTP 200: the check ran to completion and the body
	// carries the verdict.
	shared.WriteJSON(w, http.StatusOK, res)
}
