package position

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
)

// ErrNoTrades is returned when a user has no trades for the requested token
var ErrNoTrades = errors.New("no trades for contract")

// Position is the derived running total for one (user, token) pair. It is
// recomputed from the full trade log on every read and never stored, so it
// cannot drift out of sync with the trades themselves.
type Position struct {
	ContractAddress      string
	TokenName            string
	TokenSymbol          string
	TokenImage           string
	TotalTokenBought     decimal.Decimal
	TotalTokenSold       decimal.Decimal
	RemainingTokenAmount decimal.Decimal
	TotalSolSpent        decimal.Decimal
	TotalSolReceived     decimal.Decimal
	// AvgBuyPriceSol is nil when nothing was bought
	AvgBuyPriceSol   *decimal.Decimal
	RealizedPnlSol   decimal.Decimal
	LastActivityDate time.Time
	TradeCount       int
}

// TradeReader is the aggregator's only dependency
type TradeReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*trade.Trade, error)
	GetByUserAndContract(ctx context.Context, userID uuid.UUID, contractAddress string) ([]*trade.Trade, error)
}

// Aggregator computes positions from stored trades. Stateless; safe for
// concurrent use.
type Aggregator struct {
	trades TradeReader
}

// NewAggregator creates a new position aggregator
func NewAggregator(trades TradeReader) *Aggregator {
	return &Aggregator{trades: trades}
}

// Aggregate returns a position for every token the user has traded, most
// recently active first.
func (a *Aggregator) Aggregate(ctx context.Context, userID uuid.UUID) ([]*Position, error) {
	all, err := a.trades.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	positions := Fold(all)
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].LastActivityDate.After(positions[j].LastActivityDate)
	})
	return positions, nil
}

// AggregateContract returns the position for a single token
func (a *Aggregator) AggregateContract(ctx context.Context, userID uuid.UUID, contractAddress string) (*Position, error) {
	trades, err := a.trades.GetByUserAndContract(ctx, userID, contractAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	return Fold(trades)[0], nil
}

// Fold is the pure aggregation over a set of trades grouped by contract
// address: SOL spent and received are summed directly, the token total moves
// by +tokenAmount on buys and -tokenAmount on sells. The remaining amount may
// go negative when sells from untracked wallets outweigh recorded buys.
func Fold(trades []*trade.Trade) []*Position {
	byContract := make(map[string]*Position)
	var order []string

	for _, t := range trades {
		p, ok := byContract[t.ContractAddress]
		if !ok {
			p = &Position{ContractAddress: t.ContractAddress}
			byContract[t.ContractAddress] = p
			order = append(order, t.ContractAddress)
		}

		p.TotalSolSpent = p.TotalSolSpent.Add(t.BuyAmount)
		p.TotalSolReceived = p.TotalSolReceived.Add(t.SellAmount)

		if t.IsBuy() {
			p.TotalTokenBought = p.TotalTokenBought.Add(t.TokenAmount)
		} else if t.IsSell() {
			p.TotalTokenSold = p.TotalTokenSold.Add(t.TokenAmount)
		}

		if t.Date.After(p.LastActivityDate) {
			p.LastActivityDate = t.Date
		}
		if t.TokenName != "" {
			p.TokenName = t.TokenName
		}
		if t.TokenSymbol != "" {
			p.TokenSymbol = t.TokenSymbol
		}
		if t.TokenImage != "" {
			p.TokenImage = t.TokenImage
		}
		p.TradeCount++
	}

	positions := make([]*Position, 0, len(order))
	for _, addr := range order {
		p := byContract[addr]
		p.RemainingTokenAmount = p.TotalTokenBought.Sub(p.TotalTokenSold)
		p.RealizedPnlSol = p.TotalSolReceived.Sub(p.TotalSolSpent)
		if p.TotalTokenBought.IsPositive() {
			avg := p.TotalSolSpent.Div(p.TotalTokenBought)
			p.AvgBuyPriceSol = &avg
		}
		positions = append(positions, p)
	}
	return positions
}
