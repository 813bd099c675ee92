package services

import (
	"math/big"
	"sort"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// BuildLeaderboard merges both accumulator sets into one row per wallet,
// suppresses the categories the mode does not request and orders rows by
// their earliest transaction. Rows without any timestamp go last.
func BuildLeaderboard(agg Aggregation, mode entities.Mode) []entities.LeaderboardRow {
	cats := mode.Categories()

	wallets := agg.NFT.Wallets()
	for _, w := range agg.Token.Wallets() {
		if _, ok := agg.NFT.Get(w); !ok {
			wallets = append(wallets, w)
		}
	}

	rows := make([]entities.LeaderboardRow, 0, len(wallets))
	earliest := make([]*big.Int, 0, len(wallets))

	for _, w := range wallets {
		row := entities.LeaderboardRow{
			Wallet:   w,
			Tokens:   []entities.TitleBreakdown{},
			TokenRaw: "0",
		}
		var first *big.Int

		if acc, ok := agg.NFT.Get(w); ok {
			first = minTimestamp(first, acc.Earliest)
			if cats.NFT {
				row.NFTCount = acc.NFTCount
				row.Tokens = breakdown(acc, cats.Reputation)
			}
			if cats.Reputation {
				row.TotalRep = acc.ReputationTotal()
			}
		}

		if acc, ok := agg.Token.Get(w); ok {
			first = minTimestamp(first, acc.Earliest)
			if cats.Token {
				row.TokenAmount = acc.TokenAmount()
				row.TokenRaw = acc.TokenRaw.String()
				row.TokenDecimals = acc.TokenDecimals
			}
		}

		if first != nil {
			row.FirstTxAt = first.String()
		}
		rows = append(rows, row)
		earliest = append(earliest, first)
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := earliest[order[i]], earliest[order[j]]
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Cmp(b) < 0
		}
	})

	sorted := make([]entities.LeaderboardRow, len(rows))
	for i, idx := range order {
		sorted[i] = rows[idx]
	}
	return sorted
}

func breakdown(acc *entities.WalletAccumulator, withReputation bool) []entities.TitleBreakdown {
	titles := acc.Titles()
	out := make([]entities.TitleBreakdown, 0, len(titles))
	for _, t := range titles {
		b := entities.TitleBreakdown{Title: t.Title, Count: t.Count}
		if withReputation {
			b.Rep = t.UnitScore
			b.TotalRep = t.Subtotal
		}
		out = append(out, b)
	}
	return out
}

func minTimestamp(a, b *big.Int) *big.Int {
	if a == nil {
		return b
	}
	if b == nil || a.Cmp(b) <= 0 {
		return a
	}
	return b
}
