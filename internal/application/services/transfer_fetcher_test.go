package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/reputation-leaderboard/internal/config"
	"github.com/bimakw/reputation-leaderboard/internal/domain/entities"
	"github.com/bimakw/reputation-leaderboard/internal/infrastructure/history"
	"github.com/bimakw/reputation-leaderboard/internal/testutil"
)

func setupTransferFetcherTest() (*TransferFetcher, *testutil.MockTransferPageRepository) {
	repo := testutil.NewMockTransferPageRepository()
	return NewTransferFetcher(repo, zap.NewNop()), repo
}

func nftQuery(pageSize int) entities.TransferQuery {
	return entities.TransferQuery{
		WalletID:  testutil.ShopWallet,
		Direction: entities.DirectionIn,
		PageSize:  pageSize,
	}
}

func TestTransferFetcher_StopsAtDeclaredTotal(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.AddNFTTransfers(testutil.CreateMultipleNFTTransfers(5)...)

	got := fetcher.FetchNFTTransfers(context.Background(), nftQuery(2))

	if len(got) != 5 {
		t.Errorf("expected 5 transfers, got %d", len(got))
	}

	reqs := repo.Requests("FetchNFTPage")
	if len(reqs) != 3 {
		t.Fatalf("expected 3 page requests, got %d", len(reqs))
	}
	for i, want := range []int{0, 2, 4} {
		if reqs[i].Skip != want {
			t.Errorf("request %d: expected skip %d, got %d", i, want, reqs[i].Skip)
		}
		if reqs[i].Limit != 2 {
			t.Errorf("request %d: expected limit 2, got %d", i, reqs[i].Limit)
		}
	}
}

func TestTransferFetcher_StartsAtSkip(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.AddNFTTransfers(testutil.CreateMultipleNFTTransfers(5)...)

	q := nftQuery(2)
	q.Skip = 1
	got := fetcher.FetchNFTTransfers(context.Background(), q)

	if len(got) != 4 {
		t.Errorf("expected 4 transfers, got %d", len(got))
	}
	if n := repo.CallCount("FetchNFTPage"); n != 2 {
		t.Errorf("expected 2 page requests, got %d", n)
	}
}

func TestTransferFetcher_StopsOnEmptyPage(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.FetchNFTPageFunc = func(ctx context.Context, req entities.PageRequest) (*entities.NFTTransferPage, error) {
		if req.Skip == 0 {
			return &entities.NFTTransferPage{Transfers: testutil.CreateMultipleNFTTransfers(2)}, nil
		}
		return &entities.NFTTransferPage{}, nil
	}

	got := fetcher.FetchNFTTransfers(context.Background(), nftQuery(2))

	if len(got) != 2 {
		t.Errorf("expected 2 transfers, got %d", len(got))
	}
	if n := repo.CallCount("FetchNFTPage"); n != 2 {
		t.Errorf("expected 2 page requests, got %d", n)
	}
}

func TestTransferFetcher_SecondPageFailureKeepsFirstPage(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	total := int64(10)
	repo.FetchNFTPageFunc = func(ctx context.Context, req entities.PageRequest) (*entities.NFTTransferPage, error) {
		if req.Skip == 0 {
			return &entities.NFTTransferPage{Total: &total, Transfers: testutil.CreateMultipleNFTTransfers(2)}, nil
		}
		return nil, errors.New("upstream returned status 502")
	}

	got := fetcher.FetchNFTTransfers(context.Background(), nftQuery(2))

	if len(got) != 2 {
		t.Errorf("expected first page only, got %d transfers", len(got))
	}
	if n := repo.CallCount("FetchNFTPage"); n != 2 {
		t.Errorf("expected 2 page requests, got %d", n)
	}
}

func TestTransferFetcher_UnparseablePageDoesNotStopPagination(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	total := int64(4)
	repo.FetchTokenPageFunc = func(ctx context.Context, req entities.PageRequest) (*entities.TokenTransferPage, error) {
		if req.Skip == 0 {
			// both records were dropped by the parser
			return &entities.TokenTransferPage{Total: &total, Received: 2}, nil
		}
		return &entities.TokenTransferPage{
			Total:     &total,
			Received:  2,
			Transfers: []entities.TokenTransfer{
				testutil.CreateTokenTransfer(testutil.WithAmount("7")),
				testutil.CreateTokenTransfer(testutil.WithAmount("7")),
			},
		}, nil
	}

	got := fetcher.FetchTokenTransfers(context.Background(), nftQuery(2))

	if len(got) != 2 {
		t.Errorf("expected 2 transfers from the second page, got %d", len(got))
	}
	if n := repo.CallCount("FetchTokenPage"); n != 2 {
		t.Errorf("expected 2 page requests, got %d", n)
	}
}

func TestTransferFetcher_UnparseablePageOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("skip") == "0" {
			_, _ = w.Write([]byte(`{"total": 4, "ft_transfers": [
				{"sender_id": "alice.near", "amount": "1.5"},
				{"sender_id": "bob.near", "amount": "1.5"}
			]}`))
			return
		}
		_, _ = w.Write([]byte(`{"total": 4, "ft_transfers": [
			{"sender_id": "alice.near", "amount": "7"},
			{"sender_id": "bob.near", "amount": "7"}
		]}`))
	}))
	defer server.Close()

	client := history.NewClient(config.UpstreamConfig{
		FTTransfersURL: server.URL + "/history/ft-transfers/",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	fetcher := NewTransferFetcher(client, zap.NewNop())

	got := fetcher.FetchTokenTransfers(context.Background(), nftQuery(2))

	if len(got) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(got))
	}
	for _, tr := range got {
		if tr.Amount.String() != "7" {
			t.Errorf("expected amount 7, got %s", tr.Amount)
		}
	}
}

func TestTransferFetcher_FirstPageFailureReturnsEmpty(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.FetchTokenPageFunc = func(ctx context.Context, req entities.PageRequest) (*entities.TokenTransferPage, error) {
		return nil, errors.New("connection refused")
	}

	got := fetcher.FetchTokenTransfers(context.Background(), nftQuery(2))

	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestTransferFetcher_FiltersMethod(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.AddNFTTransfers(
		testutil.CreateNFTTransfer(),
		testutil.CreateNFTTransfer(testutil.WithMethod("nft_mint")),
		testutil.CreateNFTTransfer(testutil.WithTitle("Owl")),
	)

	got := fetcher.FetchNFTTransfers(context.Background(), nftQuery(10))

	if len(got) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(got))
	}
	for _, tr := range got {
		if tr.Method != entities.NFTTransferMethod {
			t.Errorf("unexpected method %q", tr.Method)
		}
	}
}

func TestTransferFetcher_FiltersTimeRange(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.AddTokenTransfers(
		testutil.CreateTokenTransfer(testutil.WithTokenTime(testutil.BaseTime)),
		testutil.CreateTokenTransfer(testutil.WithTokenTime(testutil.BaseTime.Add(time.Hour))),
		testutil.CreateTokenTransfer(testutil.WithTokenTime(testutil.BaseTime.Add(2*time.Hour))),
		testutil.CreateTokenTransfer(testutil.WithTokenTime(testutil.BaseTime.Add(3*time.Hour))),
		testutil.CreateTokenTransfer(testutil.WithoutTokenTimestamp()),
	)

	q := nftQuery(10)
	q.Range = entities.TimeRange{
		Start: testutil.Nanos(testutil.BaseTime.Add(30 * time.Minute)),
		End:   testutil.Nanos(testutil.BaseTime.Add(2 * time.Hour)),
	}
	got := fetcher.FetchTokenTransfers(context.Background(), q)

	if len(got) != 2 {
		t.Fatalf("expected 2 transfers in range, got %d", len(got))
	}
	for _, tr := range got {
		if !q.Range.Contains(tr.Timestamp) {
			t.Errorf("transfer at %v is outside the range", tr.Timestamp)
		}
	}
}

func TestTransferFetcher_KeepsMissingTimestampWithoutRange(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.AddNFTTransfers(testutil.CreateNFTTransfer(testutil.WithoutNFTTimestamp()))

	got := fetcher.FetchNFTTransfers(context.Background(), nftQuery(10))

	if len(got) != 1 {
		t.Errorf("expected 1 transfer, got %d", len(got))
	}
}

func TestTransferFetcher_DefaultPageSize(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()
	repo.AddNFTTransfers(testutil.CreateNFTTransfer())

	fetcher.FetchNFTTransfers(context.Background(), nftQuery(0))

	reqs := repo.Requests("FetchNFTPage")
	if len(reqs) != 1 || reqs[0].Limit != DefaultPageSize {
		t.Errorf("expected one request with limit %d, got %+v", DefaultPageSize, reqs)
	}
}

func TestTransferFetcher_ForwardsSymbolAndDirection(t *testing.T) {
	fetcher, repo := setupTransferFetcherTest()

	q := nftQuery(10)
	q.Direction = entities.DirectionOut
	q.Symbol = "YUM"
	fetcher.FetchTokenTransfers(context.Background(), q)

	reqs := repo.Requests("FetchTokenPage")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Symbol != "YUM" || reqs[0].Direction != entities.DirectionOut || reqs[0].WalletID != testutil.ShopWallet {
		t.Errorf("unexpected request %+v", reqs[0])
	}
}
