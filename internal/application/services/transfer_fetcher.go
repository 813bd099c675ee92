package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
	"github.com/bimakw/reputation-leaderboard/internal/domain/repositories"
)

// DefaultPageSize is used when a query carries no usable page size
const DefaultPageSize = 200

// TransferFetcher walks the paginated transfer history of a wallet
type TransferFetcher struct {
	repo   repositories.TransferPageRepository
	logger *zap.Logger
}

// NewTransferFetcher creates a new transfer fetcher
func NewTransferFetcher(repo repositories.TransferPageRepository, logger *zap.Logger) *TransferFetcher {
	return &TransferFetcher{
		repo:   repo,
		logger: logger,
	}
}

// FetchNFTTransfers returns every NFT transfer of the wallet that passes the
// method and time range filters. A failed page ends retrieval silently.
func (f *TransferFetcher) FetchNFTTransfers(ctx context.Context, q entities.TransferQuery) []entities.NFTTransfer {
	fetch := func(ctx context.Context, req entities.PageRequest) (fetchedPage[entities.NFTTransfer], error) {
		page, err := f.repo.FetchNFTPage(ctx, req)
		if err != nil {
			return fetchedPage[entities.NFTTransfer]{}, err
		}
		return fetchedPage[entities.NFTTransfer]{
			records:  page.Transfers,
			received: page.Received,
			total:    page.Total,
		}, nil
	}
	keep := func(t entities.NFTTransfer) bool {
		return t.Method == entities.NFTTransferMethod && q.Range.Contains(t.Timestamp)
	}
	return paginate(ctx, f.logger, feedNFT, q, fetch, keep)
}

// FetchTokenTransfers returns every token transfer of the wallet that passes
// the time range filter. A failed page ends retrieval silently.
func (f *TransferFetcher) FetchTokenTransfers(ctx context.Context, q entities.TransferQuery) []entities.TokenTransfer {
	fetch := func(ctx context.Context, req entities.PageRequest) (fetchedPage[entities.TokenTransfer], error) {
		page, err := f.repo.FetchTokenPage(ctx, req)
		if err != nil {
			return fetchedPage[entities.TokenTransfer]{}, err
		}
		return fetchedPage[entities.TokenTransfer]{
			records:  page.Transfers,
			received: page.Received,
			total:    page.Total,
		}, nil
	}
	keep := func(t entities.TokenTransfer) bool {
		return q.Range.Contains(t.Timestamp)
	}
	return paginate(ctx, f.logger, feedToken, q, fetch, keep)
}

// fetchedPage is one upstream page as seen by paginate. received counts the
// raw records, including ones dropped by the parser.
type fetchedPage[T any] struct {
	records  []T
	received int
	total    *int64
}

// paginate requests pages at increasing offsets until the declared total is
// reached, a page comes back empty, or a request fails. A page whose records
// all failed to parse is not empty.
func paginate[T any](
	ctx context.Context,
	logger *zap.Logger,
	feed string,
	q entities.TransferQuery,
	fetch func(ctx context.Context, req entities.PageRequest) (fetchedPage[T], error),
	keep func(T) bool,
) []T {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		kept   = make([]T, 0)
		offset = q.Skip
		total  *int64
		pages  int
	)

	for {
		page, err := fetch(ctx, entities.PageRequest{
			WalletID:  q.WalletID,
			Direction: q.Direction,
			Symbol:    q.Symbol,
			Limit:     pageSize,
			Skip:      offset,
		})
		if err != nil {
			upstreamPaginationTruncated.WithLabelValues(feed).Inc()
			logger.Warn("Page request failed, keeping partial result",
				zap.String("feed", feed),
				zap.String("wallet", q.WalletID),
				zap.Int("offset", offset),
				zap.Int("pages", pages),
				zap.Int("kept", len(kept)),
				zap.Error(err),
			)
			break
		}
		upstreamPagesFetched.WithLabelValues(feed).Inc()
		pages++

		if page.total != nil {
			total = page.total
		}
		if page.received == 0 && len(page.records) == 0 {
			break
		}

		for _, r := range page.records {
			if keep(r) {
				kept = append(kept, r)
			}
		}

		offset += pageSize
		if total != nil && int64(offset) >= *total {
			break
		}
	}

	logger.Debug("Fetched transfer history",
		zap.String("feed", feed),
		zap.String("wallet", q.WalletID),
		zap.Int("pages", pages),
		zap.Int("kept", len(kept)),
	)

	return kept
}
