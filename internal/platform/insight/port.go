package insight

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
)

var (
	ErrInsightNotFound = errors.New("insight not found")
	ErrNoTradeHistory  = errors.New("no trade history to analyze")
)

// Repository defines the interface for insight persistence
type Repository interface {
	Create(ctx context.Context, i *Insight) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Insight, error)
}

// Generator produces insight text from a trade-history digest.
// Implemented by the text generation API gateway.
type Generator interface {
	Generate(ctx context.Context, prompt string) (text string, model string, err error)
}

// Cache holds recently generated insights keyed by history digest, so an
// unchanged trade history does not trigger a second generation call.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// TradeReader supplies the trade history the digest is built from
type TradeReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*trade.Trade, error)
}
