package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/reputation-leaderboard/internal/application/services"
)

// RewardsHandler handles HTTP requests for reward token sums
type RewardsHandler struct {
	service  *services.LeaderboardService
	defaults services.QueryDefaults
	logger   *zap.Logger
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(service *services.LeaderboardService, defaults services.QueryDefaults, logger *zap.Logger) *RewardsHandler {
	return &RewardsHandler{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// RegisterRoutes registers the rewards routes
func (h *RewardsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/rewards/sums", h.GetTokenSums)
}

// GetTokenSums handles GET /api/v1/rewards/sums
func (h *RewardsHandler) GetTokenSums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := h.defaults.Parse(rawQuery(r))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	response, err := h.service.GetTokenSums(ctx, query)
	if err != nil {
		if isBadRequest(err) {
			respondError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		h.logger.Error("Failed to sum rewards", zap.Error(err), zap.String("wallet", query.WalletID))
		respondError(w, http.StatusInternalServerError, "Failed to sum rewards", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, response)
}
