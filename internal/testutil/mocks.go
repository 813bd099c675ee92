package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
)

type MockCall struct {
	Method string
	Args   []interface{}
}

// MockTransferPageRepository is a mock implementation of TransferPageRepository.
// By default it pages through its stored transfers and declares their count
// as the total.
type MockTransferPageRepository struct {
	mu             sync.RWMutex
	nftTransfers   []entities.NFTTransfer
	tokenTransfers []entities.TokenTransfer

	// Function hooks for custom behavior
	FetchNFTPageFunc   func(ctx context.Context, req entities.PageRequest) (*entities.NFTTransferPage, error)
	FetchTokenPageFunc func(ctx context.Context, req entities.PageRequest) (*entities.TokenTransferPage, error)

	// Call tracking
	Calls []MockCall
}

func NewMockTransferPageRepository() *MockTransferPageRepository {
	return &MockTransferPageRepository{
		nftTransfers:   make([]entities.NFTTransfer, 0),
		tokenTransfers: make([]entities.TokenTransfer, 0),
		Calls:          make([]MockCall, 0),
	}
}

func (m *MockTransferPageRepository) FetchNFTPage(ctx context.Context, req entities.PageRequest) (*entities.NFTTransferPage, error) {
	m.record("FetchNFTPage", req)

	if m.FetchNFTPageFunc != nil {
		return m.FetchNFTPageFunc(ctx, req)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	start, end := pageBounds(len(m.nftTransfers), req)
	page := make([]entities.NFTTransfer, end-start)
	copy(page, m.nftTransfers[start:end])

	total := int64(len(m.nftTransfers))
	return &entities.NFTTransferPage{Total: &total, Received: len(page), Transfers: page}, nil
}

func (m *MockTransferPageRepository) FetchTokenPage(ctx context.Context, req entities.PageRequest) (*entities.TokenTransferPage, error) {
	m.record("FetchTokenPage", req)

	if m.FetchTokenPageFunc != nil {
		return m.FetchTokenPageFunc(ctx, req)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	start, end := pageBounds(len(m.tokenTransfers), req)
	page := make([]entities.TokenTransfer, end-start)
	copy(page, m.tokenTransfers[start:end])

	total := int64(len(m.tokenTransfers))
	return &entities.TokenTransferPage{Total: &total, Received: len(page), Transfers: page}, nil
}

// Helper methods for test setup
func (m *MockTransferPageRepository) AddNFTTransfers(transfers ...entities.NFTTransfer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nftTransfers = append(m.nftTransfers, transfers...)
}

func (m *MockTransferPageRepository) AddTokenTransfers(transfers ...entities.TokenTransfer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenTransfers = append(m.tokenTransfers, transfers...)
}

func (m *MockTransferPageRepository) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.Calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Requests returns the page requests made for method, in call order
func (m *MockTransferPageRepository) Requests(method string) []entities.PageRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reqs []entities.PageRequest
	for _, c := range m.Calls {
		if c.Method == method {
			reqs = append(reqs, c.Args[0].(entities.PageRequest))
		}
	}
	return reqs
}

func (m *MockTransferPageRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

func pageBounds(n int, req entities.PageRequest) (int, int) {
	start := req.Skip
	if start > n {
		start = n
	}
	end := start + req.Limit
	if end > n {
		end = n
	}
	return start, end
}

// MockReputationRepository is a mock implementation of ReputationRepository
type MockReputationRepository struct {
	mu      sync.RWMutex
	entries []entities.ReputationEntry

	// Err, when set, is returned by FetchReputation
	Err error

	calls int
}

func NewMockReputationRepository(entries ...entities.ReputationEntry) *MockReputationRepository {
	return &MockReputationRepository{entries: entries}
}

func (m *MockReputationRepository) FetchReputation(ctx context.Context) ([]entities.ReputationEntry, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entities.ReputationEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MockReputationRepository) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// MockHealthChecker is a mock implementation of HealthChecker
type MockHealthChecker struct {
	Healthy bool
	Err     error
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	return &MockHealthChecker{Healthy: healthy}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	if m.Healthy {
		return nil
	}
	if m.Err != nil {
		return m.Err
	}
	return errors.New("service unavailable")
}

// MockFeedChecker reports a fixed result per upstream feed. Feeds missing
// from Down are healthy.
type MockFeedChecker struct {
	Names []string
	Down  map[string]error
}

func NewMockFeedChecker(names ...string) *MockFeedChecker {
	return &MockFeedChecker{Names: names, Down: make(map[string]error)}
}

// Fail marks a feed as unreachable
func (m *MockFeedChecker) Fail(name string) *MockFeedChecker {
	m.Down[name] = errors.New("connection refused")
	return m
}

func (m *MockFeedChecker) CheckFeeds(ctx context.Context) map[string]error {
	results := make(map[string]error, len(m.Names))
	for _, name := range m.Names {
		results[name] = m.Down[name]
	}
	return results
}
