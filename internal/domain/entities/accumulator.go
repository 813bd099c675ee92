package entities

import (
	"math/big"
	"strings"

	"github.com/bimakw/reputation-leaderboard/internal/domain/amount"
)

// TitleTally counts one NFT title within a wallet accumulator.
// Subtotal always equals Count * UnitScore.
type TitleTally struct {
	Title     string
	Count     int
	UnitScore float64
	Subtotal  float64
}

// WalletAccumulator is the running aggregate of one wallet for one request
type WalletAccumulator struct {
	Wallet        string
	NFTCount      int
	TokenRaw      *big.Int // exact sum, scaled by TokenDecimals
	TokenDecimals int
	Earliest      *big.Int

	titles     map[string]*TitleTally
	titleOrder []string
}

// NewWalletAccumulator creates an empty accumulator for wallet
func NewWalletAccumulator(wallet string) *WalletAccumulator {
	return &WalletAccumulator{
		Wallet:   wallet,
		TokenRaw: new(big.Int),
		titles:   make(map[string]*TitleTally),
	}
}

// AddNFT records one NFT transfer. The score of a title is fixed by its
// first observation.
func (a *WalletAccumulator) AddNFT(title string, score float64, ts *big.Int) {
	key := NormalizeTitle(title)
	tally, ok := a.titles[key]
	if !ok {
		tally = &TitleTally{Title: strings.TrimSpace(title), UnitScore: score}
		a.titles[key] = tally
		a.titleOrder = append(a.titleOrder, key)
	}
	tally.Count++
	tally.Subtotal = float64(tally.Count) * tally.UnitScore

	a.NFTCount++
	a.observe(ts)
}

// AddToken adds a raw token amount. Amounts with different decimals are
// brought to the larger scale so the sum stays exact.
func (a *WalletAccumulator) AddToken(raw *big.Int, decimals int, ts *big.Int) {
	if raw != nil {
		if decimals > a.TokenDecimals {
			a.TokenRaw = amount.Rescale(a.TokenRaw, a.TokenDecimals, decimals)
			a.TokenDecimals = decimals
		}
		a.TokenRaw.Add(a.TokenRaw, amount.Rescale(raw, decimals, a.TokenDecimals))
	}
	a.observe(ts)
}

// TokenAmount returns the normalized token total
func (a *WalletAccumulator) TokenAmount() float64 {
	return amount.Normalize(a.TokenRaw, a.TokenDecimals)
}

// ReputationTotal sums the title subtotals in first-seen order, so it
// matches a sum over Titles() exactly
func (a *WalletAccumulator) ReputationTotal() float64 {
	total := 0.0
	for _, key := range a.titleOrder {
		total += a.titles[key].Subtotal
	}
	return total
}

// Titles returns the per-title tallies in first-seen order
func (a *WalletAccumulator) Titles() []TitleTally {
	out := make([]TitleTally, 0, len(a.titleOrder))
	for _, key := range a.titleOrder {
		out = append(out, *a.titles[key])
	}
	return out
}

func (a *WalletAccumulator) observe(ts *big.Int) {
	if ts == nil {
		return
	}
	if a.Earliest == nil || ts.Cmp(a.Earliest) < 0 {
		a.Earliest = new(big.Int).Set(ts)
	}
}

// AccumulatorSet is a typed wallet -> accumulator mapping that remembers
// the order in which wallets were first seen.
type AccumulatorSet struct {
	byWallet map[string]*WalletAccumulator
	order    []string
}

// NewAccumulatorSet creates an empty set
func NewAccumulatorSet() *AccumulatorSet {
	return &AccumulatorSet{byWallet: make(map[string]*WalletAccumulator)}
}

// Ensure returns the accumulator of wallet, creating it if needed
func (s *AccumulatorSet) Ensure(wallet string) *WalletAccumulator {
	if acc, ok := s.byWallet[wallet]; ok {
		return acc
	}
	acc := NewWalletAccumulator(wallet)
	s.byWallet[wallet] = acc
	s.order = append(s.order, wallet)
	return acc
}

// Get returns the accumulator of wallet if present. Safe on a nil set.
func (s *AccumulatorSet) Get(wallet string) (*WalletAccumulator, bool) {
	if s == nil {
		return nil, false
	}
	acc, ok := s.byWallet[wallet]
	return acc, ok
}

// Wallets returns wallet ids in first-seen order. Safe on a nil set.
func (s *AccumulatorSet) Wallets() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of wallets. Safe on a nil set.
func (s *AccumulatorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
