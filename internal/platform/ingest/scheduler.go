package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/pkg/logger"
)

// Scheduler drives the ingestion worker: one eager cycle at startup, then a
// fixed-interval ticker. Cycles are serialized behind a run lock so a tick
// that fires while a cycle is still running waits instead of overlapping.
type Scheduler struct {
	cfg     *Config
	fetcher *Fetcher
	users   UserDirectory
	wallets WalletDirectory
	logger  *logger.Logger

	runMu   sync.Mutex
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates a new fleet scheduler
func NewScheduler(cfg *Config, fetcher *Fetcher, users UserDirectory, wallets WalletDirectory, log *logger.Logger) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	_ = cfg.Validate()

	return &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		users:   users,
		wallets: wallets,
		logger:  log.WithField("component", "ingest-scheduler"),
		stopCh:  make(chan struct{}),
	}
}

// Run starts the background ingestion loop. Blocks until the context is
// cancelled or Stop is called.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("ingestion is disabled")
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting ingestion worker", "poll_interval", s.cfg.PollInterval, "max_pages", s.cfg.MaxPages)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	// Eager first cycle at process start
	s.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingestion worker stopping (context done)")
			return
		case <-s.stopCh:
			s.logger.Info("ingestion worker stopping (stop signal)")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// Stop stops the ingestion loop
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
}

// RunCycle runs one full ingestion pass over every tracked wallet and returns
// the total count of newly persisted trades. Wallet addresses shared across
// users are fetched once, with candidates persisted per owning user. A single
// wallet's failure never aborts the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) (total int) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	// A panic in one cycle must not take down the process
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("ingestion cycle panicked", "panic", fmt.Sprintf("%v", rec))
		}
	}()

	start := time.Now()

	userIDs, err := s.users.ListIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return 0
	}

	// Group tracked wallets by address so a shared address hits the upstream
	// API once per cycle
	owners := make(map[string][]uuid.UUID)
	var order []string
	for _, userID := range userIDs {
		ws, err := s.wallets.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Error("failed to list tracked wallets", "user_id", userID, "error", err)
			continue
		}
		for _, w := range ws {
			if _, seen := owners[w.Address]; !seen {
				order = append(order, w.Address)
			}
			if !containsID(owners[w.Address], w.UserID) {
				owners[w.Address] = append(owners[w.Address], w.UserID)
			}
		}
	}

	if len(order) == 0 {
		s.logger.Debug("no tracked wallets to ingest")
		return 0
	}

	s.logger.Info("ingestion cycle started", "wallets", len(order))

	for i, address := range order {
		n, err := s.fetcher.FetchForOwners(ctx, address, owners[address])
		total += n
		if err != nil {
			s.logger.Warn("wallet ingestion incomplete", "address", address, "new_trades", n, "error", err)
		}

		if ctx.Err() != nil {
			break
		}
		if i < len(order)-1 {
			if err := sleepCtx(ctx, s.cfg.WalletDelay); err != nil {
				break
			}
		}
	}

	s.logger.Info("ingestion cycle finished",
		"wallets", len(order),
		"new_trades", total,
		"duration_ms", time.Since(start).Milliseconds())
	return total
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
