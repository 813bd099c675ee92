package entities

import (
	"math/big"
)

// NFTTransferMethod is the method tag of records that move an NFT
const NFTTransferMethod = "nft_transfer"

// Direction selects which side of a transfer a wallet is grouped by
type Direction string

const (
	// DirectionIn groups incoming transfers by their sender
	DirectionIn Direction = "in"
	// DirectionOut groups outgoing transfers by their receiver
	DirectionOut Direction = "out"
)

// ParseDirection returns the direction named by s
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionIn:
		return DirectionIn, true
	case DirectionOut:
		return DirectionOut, true
	}
	return "", false
}

// NFTTransfer represents a single NFT history record
type NFTTransfer struct {
	SenderID   string
	ReceiverID string
	Method     string
	Title      string
	Timestamp  *big.Int // nanoseconds; nil when absent or unparseable
}

// TokenTransfer represents a single fungible token history record
type TokenTransfer struct {
	SenderID   string
	ReceiverID string // empty when the upstream reports no receiver
	Amount     *big.Int
	Decimals   int
	Timestamp  *big.Int // nanoseconds; nil when absent or unparseable
}

// TimeRange is an inclusive nanosecond range. A nil bound is open.
type TimeRange struct {
	Start *big.Int
	End   *big.Int
}

// Active reports whether any bound is set
func (r TimeRange) Active() bool {
	return r.Start != nil || r.End != nil
}

// Contains reports whether ts passes the range filter.
// With an active range, a missing timestamp never passes.
func (r TimeRange) Contains(ts *big.Int) bool {
	if !r.Active() {
		return true
	}
	if ts == nil {
		return false
	}
	if r.Start != nil && ts.Cmp(r.Start) < 0 {
		return false
	}
	if r.End != nil && ts.Cmp(r.End) > 0 {
		return false
	}
	return true
}

// TransferQuery describes a full paginated retrieval for one wallet
type TransferQuery struct {
	WalletID  string
	Direction Direction
	Symbol    string // token feed only
	PageSize  int
	Skip      int
	Range     TimeRange
}

// PageRequest is a single upstream page request
type PageRequest struct {
	WalletID  string
	Direction Direction
	Symbol    string
	Limit     int
	Skip      int
}

// NFTTransferPage is one page of the NFT transfer history
type NFTTransferPage struct {
	Total     *int64 // nil when the upstream did not declare a total
	Received  int    // records on the page before parsing
	Transfers []NFTTransfer
}

// TokenTransferPage is one page of the fungible token transfer history
type TokenTransferPage struct {
	Total     *int64
	Received  int
	Transfers []TokenTransfer
}
