package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bimakw/reputation-leaderboard/internal/config"
	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

// Client talks to the wallet history API
type Client struct {
	http   *http.Client
	config config.UpstreamConfig
	logger *zap.Logger
}

// NewClient creates a new history API client
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		config: cfg,
		logger: logger,
	}
}

// FetchNFTPage retrieves one page of NFT transfers
func (c *Client) FetchNFTPage(ctx context.Context, req entities.PageRequest) (*entities.NFTTransferPage, error) {
	var page rawPage
	if err := c.getJSON(ctx, c.config.NFTTransfersURL, pageParams(req, false), &page); err != nil {
		return nil, fmt.Errorf("failed to fetch nft transfers: %w", err)
	}

	transfers, failedIndices := ParseNFTTransfers(page.NFTTransfers)
	if len(failedIndices) > 0 {
		c.logger.Warn("Failed to parse some nft transfers",
			zap.String("wallet", req.WalletID),
			zap.Int("failed_count", len(failedIndices)),
			zap.Int("total_records", len(page.NFTTransfers)),
		)
	}

	return &entities.NFTTransferPage{
		Total:     parseTotal(page.Total),
		Received:  len(page.NFTTransfers),
		Transfers: transfers,
	}, nil
}

// FetchTokenPage retrieves one page of fungible token transfers
func (c *Client) FetchTokenPage(ctx context.Context, req entities.PageRequest) (*entities.TokenTransferPage, error) {
	var page rawPage
	if err := c.getJSON(ctx, c.config.FTTransfersURL, pageParams(req, true), &page); err != nil {
		return nil, fmt.Errorf("failed to fetch token transfers: %w", err)
	}

	transfers, failedIndices := ParseTokenTransfers(page.FTTransfers)
	if len(failedIndices) > 0 {
		c.logger.Warn("Failed to parse some token transfers",
			zap.String("wallet", req.WalletID),
			zap.String("symbol", req.Symbol),
			zap.Int("failed_count", len(failedIndices)),
			zap.Int("total_records", len(page.FTTransfers)),
		)
	}

	return &entities.TokenTransferPage{
		Total:     parseTotal(page.Total),
		Received:  len(page.FTTransfers),
		Transfers: transfers,
	}, nil
}

// FetchReputation retrieves the full title reputation table
func (c *Client) FetchReputation(ctx context.Context) ([]entities.ReputationEntry, error) {
	var table rawReputationTable
	if err := c.getJSON(ctx, c.config.ReputationURL, nil, &table); err != nil {
		return nil, fmt.Errorf("failed to fetch reputation table: %w", err)
	}
	return ParseReputationEntries(table.NFTs), nil
}

// Feed names reported by CheckFeeds
const (
	FeedNFTTransfers = "nft_transfers"
	FeedFTTransfers  = "ft_transfers"
	FeedReputation   = "reputation"
)

// CheckFeeds sends a HEAD to each upstream feed and returns the result per
// feed name. A nil error means the feed answered below 500.
func (c *Client) CheckFeeds(ctx context.Context) map[string]error {
	feeds := []struct {
		name string
		url  string
	}{
		{FeedNFTTransfers, c.config.NFTTransfersURL},
		{FeedFTTransfers, c.config.FTTransfersURL},
		{FeedReputation, c.config.ReputationURL},
	}

	errs := make([]error, len(feeds))
	var g errgroup.Group
	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			errs[i] = c.headFeed(ctx, feed.url)
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]error, len(feeds))
	for i, feed := range feeds {
		results[feed.name] = errs[i]
	}
	return results
}

func (c *Client) headFeed(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	return nil
}

func pageParams(req entities.PageRequest, withSymbol bool) url.Values {
	params := url.Values{}
	params.Set("wallet_id", req.WalletID)
	params.Set("direction", string(req.Direction))
	if withSymbol {
		params.Set("symbol", req.Symbol)
	}
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("skip", strconv.Itoa(req.Skip))
	return params
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.Debug("Requesting upstream", zap.String("url", u.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
