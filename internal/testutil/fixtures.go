package testutil

import (
	"math/big"
	"time"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// Common test wallets
const (
	ShopWallet  = "shop.near"
	AliceWallet = "alice.near"
	BobWallet   = "bob.near"
	CarolWallet = "carol.near"
)

// BaseTime is the default timestamp of fixture transfers
var BaseTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// Nanos converts t into a nanosecond timestamp
func Nanos(t time.Time) *big.Int {
	return big.NewInt(t.UnixNano())
}

// CreateNFTTransfer creates an incoming NFT transfer with default values
func CreateNFTTransfer(opts ...NFTTransferOption) entities.NFTTransfer {
	t := entities.NFTTransfer{
		SenderID:   AliceWallet,
		ReceiverID: ShopWallet,
		Method:     entities.NFTTransferMethod,
		Title:      "Fox",
		Timestamp:  Nanos(BaseTime),
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

type NFTTransferOption func(*entities.NFTTransfer)

func WithNFTSender(wallet string) NFTTransferOption {
	return func(t *entities.NFTTransfer) {
		t.SenderID = wallet
	}
}

func WithNFTReceiver(wallet string) NFTTransferOption {
	return func(t *entities.NFTTransfer) {
		t.ReceiverID = wallet
	}
}

func WithMethod(method string) NFTTransferOption {
	return func(t *entities.NFTTransfer) {
		t.Method = method
	}
}

func WithTitle(title string) NFTTransferOption {
	return func(t *entities.NFTTransfer) {
		t.Title = title
	}
}

func WithNFTTime(ts time.Time) NFTTransferOption {
	return func(t *entities.NFTTransfer) {
		t.Timestamp = Nanos(ts)
	}
}

func WithoutNFTTimestamp() NFTTransferOption {
	return func(t *entities.NFTTransfer) {
		t.Timestamp = nil
	}
}

// CreateTokenTransfer creates an incoming token transfer with default values
func CreateTokenTransfer(opts ...TokenTransferOption) entities.TokenTransfer {
	t := entities.TokenTransfer{
		SenderID:   AliceWallet,
		ReceiverID: ShopWallet,
		Amount:     big.NewInt(1000),
		Decimals:   0,
		Timestamp:  Nanos(BaseTime),
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

type TokenTransferOption func(*entities.TokenTransfer)

func WithTokenSender(wallet string) TokenTransferOption {
	return func(t *entities.TokenTransfer) {
		t.SenderID = wallet
	}
}

func WithTokenReceiver(wallet string) TokenTransferOption {
	return func(t *entities.TokenTransfer) {
		t.ReceiverID = wallet
	}
}

// WithAmount sets the raw amount from its decimal text; it panics on bad input
func WithAmount(raw string) TokenTransferOption {
	return func(t *entities.TokenTransfer) {
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			panic("testutil: invalid amount " + raw)
		}
		t.Amount = v
	}
}

func WithDecimals(decimals int) TokenTransferOption {
	return func(t *entities.TokenTransfer) {
		t.Decimals = decimals
	}
}

func WithTokenTime(ts time.Time) TokenTransferOption {
	return func(t *entities.TokenTransfer) {
		t.Timestamp = Nanos(ts)
	}
}

func WithoutTokenTimestamp() TokenTransferOption {
	return func(t *entities.TokenTransfer) {
		t.Timestamp = nil
	}
}

// CreateMultipleNFTTransfers creates count transfers one minute apart
func CreateMultipleNFTTransfers(count int, opts ...NFTTransferOption) []entities.NFTTransfer {
	transfers := make([]entities.NFTTransfer, count)
	for i := 0; i < count; i++ {
		base := []NFTTransferOption{WithNFTTime(BaseTime.Add(time.Duration(i) * time.Minute))}
		transfers[i] = CreateNFTTransfer(append(base, opts...)...)
	}
	return transfers
}
