package history

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/bimakw/reputation-leaderboard/internal/domain/amount"
	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// numericText keeps the literal text of a JSON number or string so large
// integers never pass through float64.
type numericText string

func (n *numericText) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numericText(s)
		return nil
	}
	*n = numericText(data)
	return nil
}

type rawPage struct {
	Total        json.RawMessage   `json:"total"`
	NFTTransfers []json.RawMessage `json:"nft_transfers"`
	FTTransfers  []json.RawMessage `json:"ft_transfers"`
}

type rawNFTTransfer struct {
	SenderID   string      `json:"sender_id"`
	ReceiverID string      `json:"receiver_id"`
	Method     string      `json:"method"`
	Timestamp  numericText `json:"timestamp_nanosec"`
	Args       *struct {
		Title string `json:"title"`
	} `json:"args"`
}

type rawTokenTransfer struct {
	SenderID   string       `json:"sender_id"`
	ReceiverID *string      `json:"receiver_id"`
	Amount     *numericText `json:"amount"`
	Decimals   *numericText `json:"decimals"`
	Timestamp  numericText  `json:"timestamp_nanosec"`
	Args       *struct {
		Amount   *numericText `json:"amount"`
		Decimals *numericText `json:"decimals"`
	} `json:"args"`
}

type rawReputationTable struct {
	NFTs []json.RawMessage `json:"nfts"`
}

type rawReputationEntry struct {
	Title      *string  `json:"title"`
	Reputation *float64 `json:"reputation"`
}

// parseTotal reads the declared record count. Only a JSON number counts.
func parseTotal(raw json.RawMessage) *int64 {
	if len(raw) == 0 || raw[0] == '"' || string(raw) == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return nil
	}
	total := int64(f)
	return &total
}

// parseTimestamp returns nil for absent or non-digit timestamps
func parseTimestamp(text numericText) *big.Int {
	ts, ok := amount.ParseUint(string(text))
	if !ok {
		return nil
	}
	return ts
}

// ParseNFTTransfer parses a raw NFT history record
func ParseNFTTransfer(data []byte) (*entities.NFTTransfer, error) {
	var raw rawNFTTransfer
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid nft transfer: %w", err)
	}

	transfer := &entities.NFTTransfer{
		SenderID:   raw.SenderID,
		ReceiverID: raw.ReceiverID,
		Method:     raw.Method,
		Timestamp:  parseTimestamp(raw.Timestamp),
	}
	if raw.Args != nil {
		transfer.Title = raw.Args.Title
	}
	return transfer, nil
}

// ParseTokenTransfer parses a raw fungible token history record.
// The amount is read from args first, then from the record itself.
func ParseTokenTransfer(data []byte) (*entities.TokenTransfer, error) {
	var raw rawTokenTransfer
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid token transfer: %w", err)
	}

	amountText := raw.Amount
	decimalsText := raw.Decimals
	if raw.Args != nil {
		if raw.Args.Amount != nil {
			amountText = raw.Args.Amount
		}
		if raw.Args.Decimals != nil {
			decimalsText = raw.Args.Decimals
		}
	}

	value := new(big.Int)
	if amountText != nil && *amountText != "" {
		v, ok := amount.ParseUint(string(*amountText))
		if !ok {
			return nil, fmt.Errorf("unparseable amount %q", string(*amountText))
		}
		value = v
	}

	decimals := 0
	if decimalsText != nil && *decimalsText != "" {
		d, err := strconv.Atoi(string(*decimalsText))
		if err != nil || d < 0 || d > amount.MaxDecimals {
			return nil, fmt.Errorf("unparseable decimals %q", string(*decimalsText))
		}
		decimals = d
	}

	transfer := &entities.TokenTransfer{
		SenderID:  raw.SenderID,
		Amount:    value,
		Decimals:  decimals,
		Timestamp: parseTimestamp(raw.Timestamp),
	}
	if raw.ReceiverID != nil {
		transfer.ReceiverID = *raw.ReceiverID
	}
	return transfer, nil
}

// ParseNFTTransfers parses a batch of raw records.
// Returns parsed transfers and a list of failed record indices.
func ParseNFTTransfers(records []json.RawMessage) ([]entities.NFTTransfer, []int) {
	transfers := make([]entities.NFTTransfer, 0, len(records))
	failedIndices := make([]int, 0)

	for i, data := range records {
		transfer, err := ParseNFTTransfer(data)
		if err != nil {
			failedIndices = append(failedIndices, i)
			continue
		}
		transfers = append(transfers, *transfer)
	}

	return transfers, failedIndices
}

// ParseTokenTransfers parses a batch of raw records.
// Returns parsed transfers and a list of failed record indices.
func ParseTokenTransfers(records []json.RawMessage) ([]entities.TokenTransfer, []int) {
	transfers := make([]entities.TokenTransfer, 0, len(records))
	failedIndices := make([]int, 0)

	for i, data := range records {
		transfer, err := ParseTokenTransfer(data)
		if err != nil {
			failedIndices = append(failedIndices, i)
			continue
		}
		transfers = append(transfers, *transfer)
	}

	return transfers, failedIndices
}

// ParseReputationEntries keeps only entries with a string title and a
// numeric reputation.
func ParseReputationEntries(records []json.RawMessage) []entities.ReputationEntry {
	entries := make([]entities.ReputationEntry, 0, len(records))
	for _, data := range records {
		var raw rawReputationEntry
		if err := json.Unmarshal(data, &raw); err != nil {
			continue
		}
		if raw.Title == nil || raw.Reputation == nil {
			continue
		}
		entries = append(entries, entities.ReputationEntry{
			Title: *raw.Title,
			Score: *raw.Reputation,
		})
	}
	return entries
}
