package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
	"github.com/bimakw/reputation-leaderboard/internal/domain/repositories"
	"github.com/bimakw/reputation-leaderboard/internal/infrastructure/cache"
)

// LeaderboardService computes wallet reputation leaderboards
type LeaderboardService struct {
	fetcher    *TransferFetcher
	reputation *ReputationLoader
	cache      cache.Store
	logger     *zap.Logger
}

// NewLeaderboardService creates a new leaderboard service. cache may be nil.
func NewLeaderboardService(
	transferRepo repositories.TransferPageRepository,
	reputationRepo repositories.ReputationRepository,
	cache cache.Store,
	logger *zap.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		fetcher:    NewTransferFetcher(transferRepo, logger),
		reputation: NewReputationLoader(reputationRepo, logger),
		cache:      cache,
		logger:     logger,
	}
}

// GetLeaderboard builds the leaderboard for a validated query. Upstream
// failures shrink the result instead of failing it; only a cancelled
// request or an internal fault returns an error.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, q entities.LeaderboardQuery) (*entities.Leaderboard, error) {
	if strings.TrimSpace(q.WalletID) == "" {
		return nil, ErrWalletRequired
	}
	if _, err := entities.ParseMode(string(q.Mode)); err != nil {
		return nil, err
	}

	cacheKey := leaderboardCacheKey(q)

	// Try cache first
	if s.cache != nil {
		var cached entities.Leaderboard
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Failed to read cache", zap.String("key", cacheKey), zap.Error(err))
		}
		cacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	cats := q.Mode.Categories()
	tq := q.TransferQuery()

	// Each task owns its result variable; nothing is shared until Wait returns.
	var (
		nfts       []entities.NFTTransfer
		tokens     []entities.TokenTransfer
		reputation entities.ReputationTable
	)

	g, gCtx := errgroup.WithContext(ctx)
	if cats.NFT {
		g.Go(func() error {
			nfts = s.fetcher.FetchNFTTransfers(gCtx, tq)
			return nil
		})
	}
	if cats.Reputation {
		g.Go(func() error {
			reputation = s.reputation.Load(gCtx)
			return nil
		})
	}
	if cats.Token {
		g.Go(func() error {
			tokens = s.fetcher.FetchTokenTransfers(gCtx, tq)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A cancelled request truncates every feed; do not serve or cache that.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard request aborted: %w", err)
	}

	rows, err := buildRows(nfts, reputation, tokens, q)
	if err != nil {
		return nil, err
	}
	buildDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("Built leaderboard",
		zap.String("wallet", q.WalletID),
		zap.String("mode", string(q.Mode)),
		zap.String("direction", string(q.Direction)),
		zap.Int("nft_transfers", len(nfts)),
		zap.Int("token_transfers", len(tokens)),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)

	response := &entities.Leaderboard{Leaderboard: rows}

	// Cache the response
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// GetTokenSums returns the exact token total per wallet for the query's
// symbol, in first-seen order. Mode is ignored.
func (s *LeaderboardService) GetTokenSums(ctx context.Context, q entities.LeaderboardQuery) (*entities.TokenSums, error) {
	if strings.TrimSpace(q.WalletID) == "" {
		return nil, ErrWalletRequired
	}

	tokens := s.fetcher.FetchTokenTransfers(ctx, q.TransferQuery())
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("token sum request aborted: %w", err)
	}

	agg := Aggregate(nil, nil, tokens, q.Direction)
	sums := make([]entities.TokenSum, 0, agg.Token.Len())
	for _, w := range agg.Token.Wallets() {
		acc, _ := agg.Token.Get(w)
		sums = append(sums, entities.TokenSum{
			Wallet:   w,
			Raw:      acc.TokenRaw.String(),
			Decimals: acc.TokenDecimals,
			Amount:   acc.TokenAmount(),
		})
	}

	return &entities.TokenSums{Symbol: q.Symbol, Sums: sums}, nil
}

// buildRows runs aggregation and shaping, turning a panic into an error
func buildRows(
	nfts []entities.NFTTransfer,
	reputation entities.ReputationTable,
	tokens []entities.TokenTransfer,
	q entities.LeaderboardQuery,
) (rows []entities.LeaderboardRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to build leaderboard: %v", r)
		}
	}()

	agg := Aggregate(nfts, reputation, tokens, q.Direction)
	return BuildLeaderboard(agg, q.Mode), nil
}

// leaderboardCacheKey serializes every accepted parameter into a cache key
func leaderboardCacheKey(q entities.LeaderboardQuery) string {
	parts := []string{
		fmt.Sprintf("wallet:%q", q.WalletID),
		"dir:" + string(q.Direction),
		fmt.Sprintf("symbol:%q", q.Symbol),
		"mode:" + string(q.Mode),
		fmt.Sprintf("l:%d:o:%d", q.PageSize, q.Skip),
		"start:" + boundString(q.Range.Start),
		"end:" + boundString(q.Range.End),
	}

	key := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(key))
	return "leaderboard:" + hex.EncodeToString(hash[:16])
}

func boundString(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return v.String()
}
