package services

import (
	"strings"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// Aggregation holds the per-wallet accumulators of one request
type Aggregation struct {
	NFT   *entities.AccumulatorSet
	Token *entities.AccumulatorSet
}

// Aggregate folds filtered transfers into per-wallet accumulators keyed by
// the sender for incoming history and the receiver for outgoing history.
func Aggregate(
	nfts []entities.NFTTransfer,
	reputation entities.ReputationTable,
	tokens []entities.TokenTransfer,
	direction entities.Direction,
) Aggregation {
	agg := Aggregation{
		NFT:   entities.NewAccumulatorSet(),
		Token: entities.NewAccumulatorSet(),
	}

	for _, t := range nfts {
		key := aggregationKey(direction, t.SenderID, t.ReceiverID)
		if key == "" || strings.TrimSpace(t.Title) == "" {
			continue
		}
		agg.NFT.Ensure(key).AddNFT(t.Title, reputation.Score(t.Title), t.Timestamp)
	}

	for _, t := range tokens {
		key := aggregationKey(direction, t.SenderID, t.ReceiverID)
		if key == "" {
			continue
		}
		agg.Token.Ensure(key).AddToken(t.Amount, t.Decimals, t.Timestamp)
	}

	return agg
}

func aggregationKey(direction entities.Direction, sender, receiver string) string {
	if direction == entities.DirectionOut {
		return receiver
	}
	return sender
}
