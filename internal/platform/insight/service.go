package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/position"
	"github.com/avkuzmin/tradetape/internal/platform/trade"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

// cacheTTL bounds how long a generated insight is reused for an unchanged
// trade history.
const cacheTTL = 24 * time.Hour

// Service generates and stores behavioral insights
type Service struct {
	repo      Repository
	trades    TradeReader
	generator Generator
	cache     Cache
	logger    *logger.Logger
}

// NewService creates a new insight service
func NewService(repo Repository, trades TradeReader, generator Generator, cache Cache, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		trades:    trades,
		generator: generator,
		cache:     cache,
		logger:    log.WithField("component", "insight"),
	}
}

// List retrieves stored insights for a user, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Insight, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Generate builds a digest of the user's trade history, obtains insight text
// for it, and persists the result. Identical digests are served from cache
// instead of calling the generator again.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID) (*Insight, error) {
	trades, err := s.trades.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNoTradeHistory
	}

	prompt := buildPrompt(trades)
	key := cacheKey(userID, prompt)

	text, model := "", ""
	if s.cache != nil {
		if cached, ok, cerr := s.cache.Get(ctx, key); cerr == nil && ok {
			s.logger.Debug("insight cache hit", "user_id", userID)
			text, model = cached, "cached"
		}
	}

	if text == "" {
		text, model, err = s.generator.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to generate insight: %w", err)
		}
		if s.cache != nil {
			if cerr := s.cache.Set(ctx, key, text, cacheTTL); cerr != nil {
				s.logger.Warn("failed to cache insight", "error", cerr)
			}
		}
	}

	i := &Insight{
		ID:          uuid.New(),
		UserID:      userID,
		Content:     text,
		Model:       model,
		TradeCount:  len(trades),
		GeneratedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to store insight: %w", err)
	}
	return i, nil
}

// buildPrompt condenses the trade history into a compact digest the text
// generation API can reason about.
func buildPrompt(trades []*trade.Trade) string {
	positions := position.Fold(trades)

	tagCounts := make(map[string]int)
	for _, t := range trades {
		for _, tag := range t.Emotion {
			tagCounts["emotion:"+tag]++
		}
		for _, tag := range t.Mistakes {
			tagCounts["mistake:"+tag]++
		}
		for _, tag := range t.Setup {
			tagCounts["setup:"+tag]++
		}
	}
	tags := make([]string, 0, len(tagCounts))
	for tag, n := range tagCounts {
		tags = append(tags, fmt.Sprintf("%s=%d", tag, n))
	}
	sort.Strings(tags)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a trading coach. Analyze this journal of %d trades across %d tokens and describe the trader's behavioral patterns, strengths and recurring mistakes.\n\n", len(trades), len(positions))
	for _, p := range positions {
		name := p.TokenSymbol
		if name == "" {
			name = p.ContractAddress
		}
		fmt.Fprintf(&b, "%s: spent %s SOL, received %s SOL, realized PnL %s SOL over %d trades\n",
			name, p.TotalSolSpent.String(), p.TotalSolReceived.String(), p.RealizedPnlSol.String(), p.TradeCount)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, "\nSelf-reported tags: %s\n", strings.Join(tags, ", "))
	}
	return b.String()
}

// cacheKey derives a stable key from the user and the digest content
func cacheKey(userID uuid.UUID, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("insight:%s:%s", userID, hex.EncodeToString(sum[:8]))
}
