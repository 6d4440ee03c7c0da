package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/wallet"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

// Fetcher pages through the upstream trade feed for one wallet address,
// classifies raw swaps, and persists candidates through the dedup gate.
type Fetcher struct {
	provider   SwapProvider
	gate       *Gate
	classifier *Classifier
	cfg        *Config
	logger     *logger.Logger
}

// NewFetcher creates a new wallet trade fetcher
func NewFetcher(provider SwapProvider, gate *Gate, cfg *Config, log *logger.Logger) *Fetcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	_ = cfg.Validate()

	return &Fetcher{
		provider:   provider,
		gate:       gate,
		classifier: NewClassifier(),
		cfg:        cfg,
		logger:     log.WithField("component", "ingest-fetcher"),
	}
}

// FetchTradesForWallet ingests new trades for a single tracked wallet,
// scoped to its owning user. Returns the count of newly persisted trades.
func (f *Fetcher) FetchTradesForWallet(ctx context.Context, w *wallet.TrackedWallet) (int, error) {
	return f.FetchForOwners(ctx, w.Address, []uuid.UUID{w.UserID})
}

// FetchForOwners pages through the upstream feed for one address and persists
// classified candidates independently for every owning user. Transport errors
// abort the remaining pages but preserve partial progress: the count of trades
// already persisted is returned alongside the error.
func (f *Fetcher) FetchForOwners(ctx context.Context, address string, owners []uuid.UUID) (int, error) {
	log := f.logger.WithField("address", address)
	start := time.Now()

	cursor := ""
	newTrades := 0

	for page := 1; ; page++ {
		pageCtx, cancel := context.WithTimeout(ctx, f.cfg.PageTimeout)
		res, err := f.provider.GetWalletTrades(pageCtx, address, cursor)
		cancel()
		if err != nil {
			log.Warn("aborting wallet fetch", "page", page, "new_trades", newTrades, "error", err)
			return newTrades, fmt.Errorf("fetch page %d for %s: %w", page, address, err)
		}

		for _, raw := range res.Trades {
			cand, skip := f.classifier.Classify(raw)
			if cand == nil {
				log.Debug("skipping swap record", "signature", raw.Signature, "reason", string(skip))
				continue
			}

			for _, userID := range owners {
				n, err := f.gate.Persist(ctx, userID, cand)
				if err != nil {
					// Storage trouble is not recoverable within this wallet
					return newTrades, err
				}
				newTrades += n
			}
		}

		if !res.HasNextPage || res.NextCursor == "" {
			break
		}
		if page >= f.cfg.MaxPages {
			log.Info("page cap reached", "pages", page, "max_pages", f.cfg.MaxPages)
			break
		}
		cursor = res.NextCursor

		// Courtesy delay between page fetches; never after the final page
		if err := sleepCtx(ctx, f.cfg.PageDelay); err != nil {
			return newTrades, err
		}
	}

	log.Debug("wallet fetch finished", "new_trades", newTrades, "duration_ms", time.Since(start).Milliseconds())
	return newTrades, nil
}

// sleepCtx waits for d or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
