package entities

import (
	"strings"
)

// ReputationEntry is one row of the title reputation table
type ReputationEntry struct {
	Title string
	Score float64
}

// ReputationTable maps normalized NFT titles to their reputation score
type ReputationTable map[string]float64

// NormalizeTitle returns the lookup key for an NFT title
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// NewReputationTable builds a lookup table; later duplicates win
func NewReputationTable(entries []ReputationEntry) ReputationTable {
	table := make(ReputationTable, len(entries))
	for _, e := range entries {
		key := NormalizeTitle(e.Title)
		if key == "" {
			continue
		}
		table[key] = e.Score
	}
	return table
}

// Score returns the reputation of title, or 0 when unknown
func (t ReputationTable) Score(title string) float64 {
	return t[NormalizeTitle(title)]
}
