package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avkuzmin/tradetape/internal/platform/insight"
)

// InsightRepository implements the insight repository using PostgreSQL
type InsightRepository struct {
	pool *pgxpool.Pool
}

// NewInsightRepository creates a new PostgreSQL insight repository
func NewInsightRepository(pool *pgxpool.Pool) *InsightRepository {
	return &InsightRepository{pool: pool}
}

var _ insight.Repository = (*InsightRepository)(nil)

// Create persists a generated insight
func (r *InsightRepository) Create(ctx context.Context, i *insight.Insight) error {
	query := `
		INSERT INTO insights (id, user_id, content, model, trade_count, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		i.ID,
		i.UserID,
		i.Content,
		i.Model,
		i.TradeCount,
		i.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}

	return nil
}

// GetByUserID retrieves all insights for a user, newest first
func (r *InsightRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*insight.Insight, error) {
	query := `
		SELECT id, user_id, content, model, trade_count, generated_at
		FROM insights
		WHERE user_id = $1
		ORDER BY generated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []*insight.Insight
	for rows.Next() {
		var i insight.Insight
		err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Content,
			&i.Model,
			&i.TradeCount,
			&i.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insights: %w", err)
	}

	return insights, nil
}
