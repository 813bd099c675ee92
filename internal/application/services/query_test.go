package services

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/bimakw/reputation-leaderboard/internal/config"
	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

func testQueryDefaults(t *testing.T) QueryDefaults {
	t.Helper()
	d, err := NewQueryDefaults(config.LeaderboardConfig{
		DefaultPageSize: 200,
		MaxPageSize:     1000,
		DefaultSymbol:   "YUM",
		DefaultMode:     "token+nft+rep",
		Symbols:         []string{"YUM", "ZAP"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestNewQueryDefaults_InvalidMode(t *testing.T) {
	_, err := NewQueryDefaults(config.LeaderboardConfig{DefaultMode: "everything"})
	if !errors.Is(err, entities.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestQueryDefaults_Parse_Defaults(t *testing.T) {
	d := testQueryDefaults(t)

	q, err := d.Parse(RawQuery{WalletID: " shop.near "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.WalletID != "shop.near" {
		t.Errorf("expected trimmed wallet, got %q", q.WalletID)
	}
	if q.PageSize != 200 || q.Skip != 0 {
		t.Errorf("expected limit 200 skip 0, got %d %d", q.PageSize, q.Skip)
	}
	if q.Direction != entities.DirectionIn {
		t.Errorf("expected direction in, got %s", q.Direction)
	}
	if q.Symbol != "YUM" {
		t.Errorf("expected symbol YUM, got %s", q.Symbol)
	}
	if q.Mode != entities.ModeTokenNFTRep {
		t.Errorf("expected default mode, got %s", q.Mode)
	}
	if q.Range.Active() {
		t.Error("expected no time range")
	}
}

func TestQueryDefaults_Parse_MissingWallet(t *testing.T) {
	d := testQueryDefaults(t)

	_, err := d.Parse(RawQuery{WalletID: "  ", Mode: "nft"})
	if !errors.Is(err, ErrWalletRequired) {
		t.Errorf("expected ErrWalletRequired, got %v", err)
	}
}

func TestQueryDefaults_Parse_UnknownMode(t *testing.T) {
	d := testQueryDefaults(t)

	_, err := d.Parse(RawQuery{WalletID: "shop.near", Mode: "tokens"})
	if !errors.Is(err, entities.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestQueryDefaults_Parse_Values(t *testing.T) {
	d := testQueryDefaults(t)

	tests := []struct {
		name  string
		raw   RawQuery
		check func(t *testing.T, q entities.LeaderboardQuery)
	}{
		{
			name: "valid limit and skip",
			raw:  RawQuery{Limit: "50", Skip: "10"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.PageSize != 50 || q.Skip != 10 {
					t.Errorf("expected 50/10, got %d/%d", q.PageSize, q.Skip)
				}
			},
		},
		{
			name: "limit above max falls back",
			raw:  RawQuery{Limit: "5000", Skip: "-3"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.PageSize != 200 || q.Skip != 0 {
					t.Errorf("expected 200/0, got %d/%d", q.PageSize, q.Skip)
				}
			},
		},
		{
			name: "non numeric limit falls back",
			raw:  RawQuery{Limit: "abc"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.PageSize != 200 {
					t.Errorf("expected 200, got %d", q.PageSize)
				}
			},
		},
		{
			name: "direction out",
			raw:  RawQuery{Direction: "OUT"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.Direction != entities.DirectionOut {
					t.Errorf("expected out, got %s", q.Direction)
				}
			},
		},
		{
			name: "unknown direction falls back",
			raw:  RawQuery{Direction: "sideways"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.Direction != entities.DirectionIn {
					t.Errorf("expected in, got %s", q.Direction)
				}
			},
		},
		{
			name: "allowed symbol",
			raw:  RawQuery{Symbol: "zap"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.Symbol != "ZAP" {
					t.Errorf("expected ZAP, got %s", q.Symbol)
				}
			},
		},
		{
			name: "unknown symbol falls back",
			raw:  RawQuery{Symbol: "DOGE"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.Symbol != "YUM" {
					t.Errorf("expected YUM, got %s", q.Symbol)
				}
			},
		},
		{
			name: "explicit mode",
			raw:  RawQuery{Mode: "NFT+Rep"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.Mode != entities.ModeNFTRep {
					t.Errorf("expected nft+rep, got %s", q.Mode)
				}
			},
		},
		{
			name: "time range",
			raw:  RawQuery{StartTime: "2024-01-15", EndTime: "2024-01-16T12:00:00Z"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).UnixNano()
				end := time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC).UnixNano()
				if q.Range.Start == nil || q.Range.Start.Int64() != start {
					t.Errorf("expected start %d, got %v", start, q.Range.Start)
				}
				if q.Range.End == nil || q.Range.End.Int64() != end {
					t.Errorf("expected end %d, got %v", end, q.Range.End)
				}
			},
		},
		{
			name: "unparseable time is absent",
			raw:  RawQuery{StartTime: "yesterday", EndTime: "2024-01-16"},
			check: func(t *testing.T, q entities.LeaderboardQuery) {
				if q.Range.Start != nil {
					t.Errorf("expected open start, got %v", q.Range.Start)
				}
				if q.Range.End == nil {
					t.Error("expected end bound")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw.WalletID = "shop.near"
			q, err := d.Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, q)
		})
	}
}

func TestParseTimeBound(t *testing.T) {
	tests := []struct {
		input string
		want  *time.Time
	}{
		{"", nil},
		{"not a date", nil},
		{"2024-01-15T10:30:00Z", ptrTime(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))},
		{"2024-01-15T10:30:00.5+02:00", ptrTime(time.Date(2024, 1, 15, 8, 30, 0, 500000000, time.UTC))},
		{"2024-01-15T10:30:00", ptrTime(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))},
		{"2024-01-15T10:30", ptrTime(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseTimeBound(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil || got.Int64() != tt.want.UnixNano() {
				t.Errorf("expected %d, got %v", tt.want.UnixNano(), got)
			}
		})
	}
}

func TestParseTimeBound_FarDates(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2300-01-01", "10413792000000000000"},
		{"1600-01-01", "-11676096000000000000"},
		{"1970-01-01T00:00:00.000000001Z", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseTimeBound(tt.input)
			if got == nil || got.String() != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}

	// a range reaching past 2262 still contains present-day transfers
	r := entities.TimeRange{
		Start: ParseTimeBound("1600-01-01"),
		End:   ParseTimeBound("2300-01-01"),
	}
	ts := big.NewInt(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	if !r.Contains(ts) {
		t.Errorf("expected range %v..%v to contain %v", r.Start, r.End, ts)
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
