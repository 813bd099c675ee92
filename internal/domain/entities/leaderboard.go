package entities

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned for a mode tag outside the supported set
var ErrUnknownMode = errors.New("unknown leaderboard mode")

// Mode selects which data categories a leaderboard reports
type Mode string

const (
	ModeNFT         Mode = "nft"
	ModeNFTRep      Mode = "nft+rep"
	ModeToken       Mode = "token"
	ModeTokenNFT    Mode = "token+nft"
	ModeTokenNFTRep Mode = "token+nft+rep"
)

// Categories lists the data categories included by a mode
type Categories struct {
	NFT        bool
	Reputation bool
	Token      bool
}

var modeCategories = map[Mode]Categories{
	ModeNFT:         {NFT: true},
	ModeNFTRep:      {NFT: true, Reputation: true},
	ModeToken:       {Token: true},
	ModeTokenNFT:    {NFT: true, Token: true},
	ModeTokenNFTRep: {NFT: true, Reputation: true, Token: true},
}

// ParseMode validates a mode tag
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modeCategories[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Categories returns the categories included by m
func (m Mode) Categories() Categories {
	return modeCategories[m]
}

// LeaderboardQuery is the validated parameter set of a leaderboard request
type LeaderboardQuery struct {
	WalletID  string
	PageSize  int
	Skip      int
	Direction Direction
	Symbol    string
	Mode      Mode
	Range     TimeRange
}

// TransferQuery returns the retrieval parameters shared by both feeds
func (q LeaderboardQuery) TransferQuery() TransferQuery {
	return TransferQuery{
		WalletID:  q.WalletID,
		Direction: q.Direction,
		Symbol:    q.Symbol,
		PageSize:  q.PageSize,
		Skip:      q.Skip,
		Range:     q.Range,
	}
}

// TitleBreakdown is the per-title part of a leaderboard row
type TitleBreakdown struct {
	Title    string  `json:"title"`
	Count    int     `json:"count"`
	Rep      float64 `json:"rep"`
	TotalRep float64 `json:"totalRep"`
}

// LeaderboardRow is the per-wallet projection returned to callers.
// Fields a mode does not request are zero, never omitted.
type LeaderboardRow struct {
	Wallet        string           `json:"wallet"`
	TotalRep      float64          `json:"totalRep"`
	NFTCount      int              `json:"nftCount"`
	Tokens        []TitleBreakdown `json:"tokens"`
	TokenAmount   float64          `json:"tokenAmount"`
	TokenRaw      string           `json:"tokenRaw"`
	TokenDecimals int              `json:"tokenDecimals"`
	FirstTxAt     string           `json:"firstTxAt"` // earliest nanosecond timestamp, empty when unknown
}

// Leaderboard is the response payload of a leaderboard request
type Leaderboard struct {
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

// TokenSum is the exact token total sent by one wallet
type TokenSum struct {
	Wallet   string  `json:"wallet"`
	Raw      string  `json:"raw"`
	Decimals int     `json:"decimals"`
	Amount   float64 `json:"amount"`
}

// TokenSums is the response payload of a token sum request
type TokenSums struct {
	Symbol string     `json:"symbol"`
	Sums   []TokenSum `json:"sums"`
}
