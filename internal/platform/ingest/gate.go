package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

var errNegativeAmount = errors.New("negative amount")

// Gate decides whether a candidate has already been recorded for a user and
// persists it exactly once. The pre-check keeps constraint-violation noise out
// of the logs; the storage-level unique index on (user_id, transaction_signature)
// is the authoritative guard against races.
type Gate struct {
	store  TradeStore
	logger *logger.Logger
}

// NewGate creates a new dedup/ingestion gate
func NewGate(store TradeStore, log *logger.Logger) *Gate {
	return &Gate{
		store:  store,
		logger: log.WithField("component", "ingest-gate"),
	}
}

// Persist stores the candidate for the user unless it is already recorded.
// Returns 1 when a new trade was written, 0 for duplicates.
func (g *Gate) Persist(ctx context.Context, userID uuid.UUID, cand *Candidate) (int, error) {
	exists, err := g.store.ExistsBySignature(ctx, userID, cand.Signature)
	if err != nil {
		return 0, fmt.Errorf("failed to check signature: %w", err)
	}
	if exists {
		g.logger.Debug("trade already recorded", "user_id", userID, "signature", cand.Signature)
		return 0, nil
	}

	now := time.Now()
	sig := cand.Signature
	t := &trade.Trade{
		ID:                   uuid.New(),
		UserID:               userID,
		ContractAddress:      cand.ContractAddress,
		TokenName:            cand.TokenName,
		TokenSymbol:          cand.TokenSymbol,
		TokenImage:           cand.TokenImage,
		BuyAmount:            cand.BuyAmount,
		SellAmount:           cand.SellAmount,
		TokenAmount:          cand.TokenAmount,
		Setup:                []string{},
		Emotion:              []string{},
		Mistakes:             []string{},
		Date:                 cand.Date,
		TransactionSignature: &sig,
		Source:               trade.SourceIngested,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := g.store.Create(ctx, t); err != nil {
		// Another fetch run won the race between check and insert
		if errors.Is(err, trade.ErrDuplicateSignature) {
			g.logger.Debug("duplicate insert ignored", "user_id", userID, "signature", cand.Signature)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to persist trade: %w", err)
	}

	return 1, nil
}
