package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bimakw/reputation-leaderboard/internal/application/services"
	"github.com/bimakw/reputation-leaderboard/internal/config"
	"github.com/bimakw/reputation-leaderboard/internal/infrastructure/history"
)

func main() {
	var (
		raw     services.RawQuery
		sums    bool
		pretty  bool
		timeout time.Duration
	)
	flag.StringVar(&raw.WalletID, "wallet", "", "wallet whose transfer history is aggregated (required)")
	flag.StringVar(&raw.Mode, "mode", "", "nft, nft+rep, token, token+nft or token+nft+rep")
	flag.StringVar(&raw.Direction, "direction", "", "in or out")
	flag.StringVar(&raw.Symbol, "symbol", "", "reward token symbol")
	flag.StringVar(&raw.Limit, "limit", "", "upstream page size")
	flag.StringVar(&raw.Skip, "skip", "", "starting offset")
	flag.StringVar(&raw.StartTime, "start", "", "ISO-8601 start of the time range")
	flag.StringVar(&raw.EndTime, "end", "", "ISO-8601 end of the time range")
	flag.BoolVar(&sums, "sums", false, "print per-wallet reward token sums instead of the leaderboard")
	flag.BoolVar(&pretty, "pretty", false, "indent JSON output")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	defaults, err := services.NewQueryDefaults(cfg.Leaderboard)
	if err != nil {
		logger.Fatal("Invalid leaderboard configuration", zap.Error(err))
	}

	query, err := defaults.Parse(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	historyClient := history.NewClient(cfg.Upstream, logger)
	service := services.NewLeaderboardService(historyClient, historyClient, nil, logger)

	var result interface{}
	if sums {
		result, err = service.GetTokenSums(ctx, query)
	} else {
		result, err = service.GetLeaderboard(ctx, query)
	}
	if err != nil {
		logger.Error("Failed to compute result", zap.Error(err))
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(result); err != nil {
		logger.Error("Failed to write result", zap.Error(err))
		os.Exit(1)
	}
}

// setupLogger writes to stderr so stdout carries only the JSON result
func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.WarnLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
