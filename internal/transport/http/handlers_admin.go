package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verifyhr/internal/passport"
	"verifyhr/internal/platform/middleware"
	"verifyhr/internal/transport/http/shared"
	dErrors "verifyhr/pkg/domain-errors"
)

// AdminHandler handles operator endpoints: seeding the candidate index with
// records richer than what the ledger alone can express.
type AdminHandler struct {
	index        passport.IndexStore
	logger       *slog.Logger
	passwordHash string
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(index passport.IndexStore, logger *slog.Logger, passwordHash string) *AdminHandler {
	return &AdminHandler{
		index:        index,
		logger:       logger,
		passwordHash: passwordHash,
	}
}

// Register registers the admin routes behind basic auth.
func (h *AdminHandler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAdmin(h.passwordHash, h.logger))
		g.Post("/admin/candidates", h.handleSeedCandidate)
	})
}

func (h *AdminHandler) handleSeedCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var rec passport.HolderRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if rec.AssetID == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "assetId is required"))
		return
	}

	if err := h.index.Save(ctx, &rec); err != nil {
		h.logger.ErrorContext(ctx, "candidate seed failed",
			"request_id", middleware.GetRequestID(ctx),
			"asset_id", rec.AssetID,
			"error", err,
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store candidate"))
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]uint64{"assetId": rec.AssetID})
}
