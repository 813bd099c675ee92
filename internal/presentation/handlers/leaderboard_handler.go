package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/reputation-leaderboard/internal/application/services"
	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// LeaderboardHandler handles HTTP requests for wallet leaderboards
type LeaderboardHandler struct {
	service  *services.LeaderboardService
	defaults services.QueryDefaults
	logger   *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *services.LeaderboardService, defaults services.QueryDefaults, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// RegisterRoutes registers the leaderboard routes
func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.GetLeaderboard)
}

// GetLeaderboard handles GET /api/v1/leaderboard and the legacy
// GET /api/nft-reputation
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := h.defaults.Parse(rawQuery(r))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	response, err := h.service.GetLeaderboard(ctx, query)
	if err != nil {
		if isBadRequest(err) {
			respondError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		h.logger.Error("Failed to build leaderboard",
			zap.Error(err),
			zap.String("wallet", query.WalletID),
			zap.String("mode", string(query.Mode)),
		)
		respondError(w, http.StatusInternalServerError, "Failed to build leaderboard", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// rawQuery collects the leaderboard parameters of a request
func rawQuery(r *http.Request) services.RawQuery {
	q := r.URL.Query()
	return services.RawQuery{
		WalletID:  q.Get("wallet_id"),
		Limit:     q.Get("limit"),
		Skip:      q.Get("skip"),
		Direction: q.Get("direction"),
		Symbol:    q.Get("symbol"),
		Mode:      q.Get("mode"),
		StartTime: q.Get("start_time"),
		EndTime:   q.Get("end_time"),
	}
}

func isBadRequest(err error) bool {
	return errors.Is(err, services.ErrWalletRequired) || errors.Is(err, entities.ErrUnknownMode)
}
