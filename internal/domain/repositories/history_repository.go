package repositories

import (
	"context"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// TransferPageRepository defines the paginated transfer history source
type TransferPageRepository interface {
	// FetchNFTPage retrieves one page of NFT transfers for a wallet
	FetchNFTPage(ctx context.Context, req entities.PageRequest) (*entities.NFTTransferPage, error)

	// FetchTokenPage retrieves one page of fungible token transfers for a wallet
	FetchTokenPage(ctx context.Context, req entities.PageRequest) (*entities.TokenTransferPage, error)
}

// ReputationRepository defines the title reputation table source
type ReputationRepository interface {
	// FetchReputation retrieves the complete reputation table in one call
	FetchReputation(ctx context.Context) ([]entities.ReputationEntry, error)
}
