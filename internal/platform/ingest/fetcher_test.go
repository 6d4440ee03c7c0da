package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
	"github.com/avkuzmin/tradetape/internal/platform/wallet"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test", io.Discard)
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.PageDelay = 0
	cfg.WalletDelay = 0
	cfg.PageTimeout = time.Second
	return cfg
}

// fakeProvider serves scripted pages per address and records every call
type fakeProvider struct {
	mu    sync.Mutex
	pages map[string][]*TradePage
	errAt map[string]int // 1-based page index that fails
	calls []string       // "address:cursor"
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		pages: make(map[string][]*TradePage),
		errAt: make(map[string]int),
	}
}

func (p *fakeProvider) GetWalletTrades(ctx context.Context, address, cursor string) (*TradePage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, address+":"+cursor)

	pageNum := 1
	if cursor != "" {
		fmt.Sscanf(cursor, "cursor-%d", &pageNum)
	}
	if fail, ok := p.errAt[address]; ok && pageNum == fail {
		return nil, errors.New("upstream unavailable")
	}

	pages := p.pages[address]
	if pageNum > len(pages) {
		return &TradePage{}, nil
	}
	return pages[pageNum-1], nil
}

func (p *fakeProvider) callCount(address string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if len(c) >= len(address) && c[:len(address)] == address {
			n++
		}
	}
	return n
}

// memStore is an in-memory TradeStore with the same duplicate semantics as
// the PostgreSQL repository
type memStore struct {
	mu     sync.Mutex
	trades map[string]*trade.Trade // userID + signature
	fail   bool
}

func newMemStore() *memStore {
	return &memStore{trades: make(map[string]*trade.Trade)}
}

func (s *memStore) key(userID uuid.UUID, sig string) string {
	return userID.String() + ":" + sig
}

func (s *memStore) ExistsBySignature(ctx context.Context, userID uuid.UUID, signature string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errors.New("storage down")
	}
	_, ok := s.trades[s.key(userID, signature)]
	return ok, nil
}

func (s *memStore) Create(ctx context.Context, t *trade.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("storage down")
	}
	k := s.key(t.UserID, *t.TransactionSignature)
	if _, ok := s.trades[k]; ok {
		return trade.ErrDuplicateSignature
	}
	s.trades[k] = t
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

func (s *memStore) forUser(userID uuid.UUID) []*trade.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*trade.Trade
	for _, t := range s.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func buyRecord(sig, amount, tokenAmount string) RawSwapRecord {
	return RawSwapRecord{
		Signature:     sig,
		TimestampMs:   1700000000000,
		From:          solLeg(amount),
		To:            tokenLeg(testTokenMint, tokenAmount),
		WalletAddress: testWallet,
	}
}

func newTestFetcher(provider SwapProvider, store TradeStore, cfg *Config) *Fetcher {
	log := testLogger()
	return NewFetcher(provider, NewGate(store, log), cfg, log)
}

func TestFetcher_SinglePage(t *testing.T) {
	provider := newFakeProvider()
	provider.pages[testWallet] = []*TradePage{
		{Trades: []RawSwapRecord{
			buyRecord("sig-1", "1.0", "100"),
			buyRecord("sig-2", "2.0", "200"),
		}},
	}
	store := newMemStore()
	f := newTestFetcher(provider, store, testConfig())

	userID := uuid.New()
	n, err := f.FetchTradesForWallet(context.Background(), &wallet.TrackedWallet{
		UserID:  userID,
		Address: testWallet,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.count())
	for _, tr := range store.forUser(userID) {
		assert.Equal(t, trade.SourceIngested, tr.Source)
		require.NotNil(t, tr.TransactionSignature)
	}
}

func TestFetcher_FollowsCursor(t *testing.T) {
	provider := newFakeProvider()
	provider.pages[testWallet] = []*TradePage{
		{Trades: []RawSwapRecord{buyRecord("sig-1", "1", "10")}, NextCursor: "cursor-2", HasNextPage: true},
		{Trades: []RawSwapRecord{buyRecord("sig-2", "1", "10")}, NextCursor: "cursor-3", HasNextPage: true},
		{Trades: []RawSwapRecord{buyRecord("sig-3", "1", "10")}},
	}
	store := newMemStore()
	f := newTestFetcher(provider, store, testConfig())

	n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, provider.callCount(testWallet))
}

func TestFetcher_PageCap(t *testing.T) {
	provider := newFakeProvider()
	// Upstream always claims another page exists
	var pages []*TradePage
	for i := 1; i <= 30; i++ {
		pages = append(pages, &TradePage{
			Trades:      []RawSwapRecord{buyRecord(fmt.Sprintf("sig-%d", i), "1", "10")},
			NextCursor:  fmt.Sprintf("cursor-%d", i+1),
			HasNextPage: true,
		})
	}
	provider.pages[testWallet] = pages
	store := newMemStore()

	cfg := testConfig()
	f := newTestFetcher(provider, store, cfg)

	n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, cfg.MaxPages, n)
	assert.Equal(t, cfg.MaxPages, provider.callCount(testWallet))
}

func TestFetcher_RerunIsIdempotent(t *testing.T) {
	provider := newFakeProvider()
	provider.pages[testWallet] = []*TradePage{
		{Trades: []RawSwapRecord{
			buyRecord("sig-1", "1", "10"),
			buyRecord("sig-2", "1", "10"),
		}},
	}
	store := newMemStore()
	f := newTestFetcher(provider, store, testConfig())
	userID := uuid.New()

	n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{userID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{userID})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, store.count())
}

func TestFetcher_PartialProgressOnTransportError(t *testing.T) {
	provider := newFakeProvider()
	provider.pages[testWallet] = []*TradePage{
		{Trades: []RawSwapRecord{buyRecord("sig-1", "1", "10")}, NextCursor: "cursor-2", HasNextPage: true},
		{Trades: []RawSwapRecord{buyRecord("sig-2", "1", "10")}, NextCursor: "cursor-3", HasNextPage: true},
		{Trades: []RawSwapRecord{buyRecord("sig-3", "1", "10")}},
	}
	provider.errAt[testWallet] = 3
	store := newMemStore()
	f := newTestFetcher(provider, store, testConfig())

	n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})

	require.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.count())
}

func TestFetcher_SkippedRecordsDoNotCount(t *testing.T) {
	provider := newFakeProvider()
	provider.pages[testWallet] = []*TradePage{
		{Trades: []RawSwapRecord{
			buyRecord("sig-1", "1", "10"),
			{
				Signature:     "sig-tok-tok",
				TimestampMs:   1700000000000,
				From:          tokenLeg(testOtherMint, "5"),
				To:            tokenLeg(testTokenMint, "10"),
				WalletAddress: testWallet,
			},
			{}, // malformed
		}},
	}
	store := newMemStore()
	f := newTestFetcher(provider, store, testConfig())

	n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFetcher_StorageErrorAborts(t *testing.T) {
	provider := newFakeProvider()
	provider.pages[testWallet] = []*TradePage{
		{Trades: []RawSwapRecord{buyRecord("sig-1", "1", "10")}},
	}
	store := newMemStore()
	store.fail = true
	f := newTestFetcher(provider, store, testConfig())

	n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})

	require.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestFetcher_NoDelayAfterFinalPage(t *testing.T) {
	const delay = 300 * time.Millisecond

	t.Run("single page incurs no delay", func(t *testing.T) {
		provider := newFakeProvider()
		provider.pages[testWallet] = []*TradePage{
			{Trades: []RawSwapRecord{buyRecord("sig-1", "1", "10")}},
		}
		cfg := testConfig()
		cfg.PageDelay = delay
		f := newTestFetcher(provider, newMemStore(), cfg)

		start := time.Now()
		n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Less(t, elapsed, delay, "single-page fetch slept")
	})

	t.Run("delay applies between pages only", func(t *testing.T) {
		provider := newFakeProvider()
		provider.pages[testWallet] = []*TradePage{
			{Trades: []RawSwapRecord{buyRecord("sig-1", "1", "10")}, NextCursor: "cursor-2", HasNextPage: true},
			{Trades: []RawSwapRecord{buyRecord("sig-2", "1", "10")}},
		}
		cfg := testConfig()
		cfg.PageDelay = delay
		f := newTestFetcher(provider, newMemStore(), cfg)

		start := time.Now()
		n, err := f.FetchForOwners(context.Background(), testWallet, []uuid.UUID{uuid.New()})
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.GreaterOrEqual(t, elapsed, delay, "inter-page delay not applied")
		assert.Less(t, elapsed, 2*delay, "fetch slept after the final page")
	})
}

func TestGate_DuplicateInsertRace(t *testing.T) {
	store := newMemStore()
	gate := NewGate(store, testLogger())
	userID := uuid.New()

	cand, skip := NewClassifier().Classify(buyRecord("sig-race", "1", "10"))
	require.NotNil(t, cand)
	require.Empty(t, skip)

	n, err := gate.Persist(context.Background(), userID, cand)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Second persist hits the pre-check
	n, err = gate.Persist(context.Background(), userID, cand)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// A different user may record the same signature
	n, err = gate.Persist(context.Background(), uuid.New(), cand)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
