package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
)

// TradeRepository implements the trade repository interface using PostgreSQL
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new PostgreSQL trade repository
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

var _ trade.Repository = (*TradeRepository)(nil)

const tradeColumns = `
	id, user_id, contract_address, token_name, token_symbol, token_image,
	buy_amount, sell_amount, token_amount,
	setup, emotion, mistakes,
	date, notes, is_shared, transaction_signature, source,
	created_at, updated_at`

// Create inserts a new trade. The unique index on
// (user_id, transaction_signature) makes duplicate ingested trades fail
// here with ErrDuplicateSignature regardless of any pre-check the caller did.
func (r *TradeRepository) Create(ctx context.Context, t *trade.Trade) error {
	query := `
		INSERT INTO trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.ContractAddress,
		t.TokenName,
		t.TokenSymbol,
		t.TokenImage,
		t.BuyAmount,
		t.SellAmount,
		t.TokenAmount,
		t.Setup,
		t.Emotion,
		t.Mistakes,
		t.Date,
		t.Notes,
		t.IsShared,
		t.TransactionSignature,
		string(t.Source),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return trade.ErrDuplicateSignature
		}
		return fmt.Errorf("failed to create trade: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by ID
func (r *TradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*trade.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	t, err := scanTrade(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trade.ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}

	return t, nil
}

// GetByUserID retrieves all trades for a user, oldest first
func (r *TradeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*trade.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = $1 ORDER BY date, created_at`
	return r.queryTrades(ctx, query, userID)
}

// GetByUserAndContract retrieves a user's trades for one token, oldest first
func (r *TradeRepository) GetByUserAndContract(ctx context.Context, userID uuid.UUID, contractAddress string) ([]*trade.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = $1 AND contract_address = $2 ORDER BY date, created_at`
	return r.queryTrades(ctx, query, userID, contractAddress)
}

func (r *TradeRepository) queryTrades(ctx context.Context, query string, args ...any) ([]*trade.Trade, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []*trade.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return trades, nil
}

func scanTrade(row pgx.Row) (*trade.Trade, error) {
	var t trade.Trade
	var notes, signature sql.NullString
	var source string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.ContractAddress,
		&t.TokenName,
		&t.TokenSymbol,
		&t.TokenImage,
		&t.BuyAmount,
		&t.SellAmount,
		&t.TokenAmount,
		&t.Setup,
		&t.Emotion,
		&t.Mistakes,
		&t.Date,
		&notes,
		&t.IsShared,
		&signature,
		&source,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		t.Notes = &notes.String
	}
	if signature.Valid {
		t.TransactionSignature = &signature.String
	}
	t.Source = trade.Source(source)

	return &t, nil
}

// ExistsBySignature checks if the user already has a trade with the signature
func (r *TradeRepository) ExistsBySignature(ctx context.Context, userID uuid.UUID, signature string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM trades WHERE user_id = $1 AND transaction_signature = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, signature).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check trade signature: %w", err)
	}

	return exists, nil
}

// Update updates an existing trade
func (r *TradeRepository) Update(ctx context.Context, t *trade.Trade) error {
	query := `
		UPDATE trades
		SET contract_address = $2, token_name = $3, token_symbol = $4, token_image = $5,
			buy_amount = $6, sell_amount = $7, token_amount = $8,
			setup = $9, emotion = $10, mistakes = $11,
			date = $12, notes = $13, is_shared = $14, updated_at = $15
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		t.ID,
		t.ContractAddress,
		t.TokenName,
		t.TokenSymbol,
		t.TokenImage,
		t.BuyAmount,
		t.SellAmount,
		t.TokenAmount,
		t.Setup,
		t.Emotion,
		t.Mistakes,
		t.Date,
		t.Notes,
		t.IsShared,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return trade.ErrTradeNotFound
	}

	return nil
}

// Delete deletes a trade by ID
func (r *TradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM trades WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return trade.ErrTradeNotFound
	}

	return nil
}
