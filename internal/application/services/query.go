package services

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/bimakw/reputation-leaderboard/internal/config"
	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// ErrWalletRequired is returned when a query carries no wallet id
var ErrWalletRequired = errors.New("parameter wallet_id is required")

// timeLayouts are the ISO-8601 forms accepted for start_time and end_time
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// RawQuery holds leaderboard parameters as received from a caller
type RawQuery struct {
	WalletID  string
	Limit     string
	Skip      string
	Direction string
	Symbol    string
	Mode      string
	StartTime string
	EndTime   string
}

// QueryDefaults turns raw parameters into a validated LeaderboardQuery
type QueryDefaults struct {
	PageSize    int
	MaxPageSize int
	Symbol      string
	Mode        entities.Mode

	symbols map[string]struct{}
}

// NewQueryDefaults builds query defaults from configuration
func NewQueryDefaults(cfg config.LeaderboardConfig) (QueryDefaults, error) {
	mode, err := entities.ParseMode(cfg.DefaultMode)
	if err != nil {
		return QueryDefaults{}, err
	}

	d := QueryDefaults{
		PageSize:    cfg.DefaultPageSize,
		MaxPageSize: cfg.MaxPageSize,
		Symbol:      normalizeSymbol(cfg.DefaultSymbol),
		Mode:        mode,
		symbols:     make(map[string]struct{}),
	}
	if d.PageSize <= 0 {
		d.PageSize = DefaultPageSize
	}
	if d.MaxPageSize < d.PageSize {
		d.MaxPageSize = d.PageSize
	}

	d.symbols[d.Symbol] = struct{}{}
	for _, s := range cfg.Symbols {
		if s = normalizeSymbol(s); s != "" {
			d.symbols[s] = struct{}{}
		}
	}
	return d, nil
}

// Parse validates raw parameters. Only a missing wallet id and an unknown
// mode are errors; every other bad value falls back to its default.
func (d QueryDefaults) Parse(raw RawQuery) (entities.LeaderboardQuery, error) {
	q := entities.LeaderboardQuery{
		WalletID:  strings.TrimSpace(raw.WalletID),
		PageSize:  d.PageSize,
		Direction: entities.DirectionIn,
		Symbol:    d.Symbol,
		Mode:      d.Mode,
	}
	if q.WalletID == "" {
		return q, ErrWalletRequired
	}

	if v, err := strconv.Atoi(strings.TrimSpace(raw.Limit)); err == nil && v > 0 && v <= d.MaxPageSize {
		q.PageSize = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(raw.Skip)); err == nil && v > 0 {
		q.Skip = v
	}
	if dir, ok := entities.ParseDirection(strings.ToLower(strings.TrimSpace(raw.Direction))); ok {
		q.Direction = dir
	}
	if s := normalizeSymbol(raw.Symbol); s != "" {
		if _, ok := d.symbols[s]; ok {
			q.Symbol = s
		}
	}
	if m := strings.ToLower(strings.TrimSpace(raw.Mode)); m != "" {
		mode, err := entities.ParseMode(m)
		if err != nil {
			return q, err
		}
		q.Mode = mode
	}

	q.Range = entities.TimeRange{
		Start: ParseTimeBound(raw.StartTime),
		End:   ParseTimeBound(raw.EndTime),
	}
	return q, nil
}

// ParseTimeBound converts an ISO-8601 date or timestamp into nanoseconds.
// Unparseable input yields nil, which leaves that side of the range open.
func ParseTimeBound(s string) *big.Int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return unixNanos(t)
		}
	}
	return nil
}

// unixNanos is t.UnixNano without the int64 overflow outside 1678-2262
func unixNanos(t time.Time) *big.Int {
	ns := new(big.Int).Mul(big.NewInt(t.Unix()), big.NewInt(int64(time.Second)))
	return ns.Add(ns, big.NewInt(int64(t.Nanosecond())))
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
