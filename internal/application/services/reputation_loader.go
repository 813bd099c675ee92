package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
	"github.com/bimakw/reputation-leaderboard/internal/domain/repositories"
)

// ReputationLoader loads the title reputation table
type ReputationLoader struct {
	repo   repositories.ReputationRepository
	logger *zap.Logger
}

// NewReputationLoader creates a new reputation loader
func NewReputationLoader(repo repositories.ReputationRepository, logger *zap.Logger) *ReputationLoader {
	return &ReputationLoader{
		repo:   repo,
		logger: logger,
	}
}

// Load fetches the table once. On failure it returns an empty table, which
// scores every title as zero.
func (l *ReputationLoader) Load(ctx context.Context) entities.ReputationTable {
	entries, err := l.repo.FetchReputation(ctx)
	if err != nil {
		reputationFallbacks.Inc()
		l.logger.Warn("Failed to load reputation table, scoring with zero", zap.Error(err))
		return entities.ReputationTable{}
	}
	return entities.NewReputationTable(entries)
}
