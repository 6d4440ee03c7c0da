package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avkuzmin/tradetape/internal/platform/wallet"
)

// WalletRepository implements the tracked wallet repository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new PostgreSQL tracked wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

var _ wallet.Repository = (*WalletRepository)(nil)

// Create creates a new tracked wallet
func (r *WalletRepository) Create(ctx context.Context, w *wallet.TrackedWallet) error {
	query := `
		INSERT INTO tracked_wallets (id, user_id, label, address, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		w.ID,
		w.UserID,
		w.Label,
		w.Address,
		w.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return wallet.ErrDuplicateAddress
		}
		return fmt.Errorf("failed to create tracked wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a tracked wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.TrackedWallet, error) {
	query := `
		SELECT id, user_id, label, address, created_at
		FROM tracked_wallets
		WHERE id = $1
	`

	var w wallet.TrackedWallet
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.UserID,
		&w.Label,
		&w.Address,
		&w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get tracked wallet: %w", err)
	}

	return &w, nil
}

// GetByUserID retrieves all tracked wallets for a user, oldest first
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.TrackedWallet, error) {
	query := `
		SELECT id, user_id, label, address, created_at
		FROM tracked_wallets
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*wallet.TrackedWallet
	for rows.Next() {
		var w wallet.TrackedWallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Label, &w.Address, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracked wallet: %w", err)
		}
		wallets = append(wallets, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked wallets: %w", err)
	}

	return wallets, nil
}

// Delete deletes a tracked wallet by ID
func (r *WalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tracked_wallets WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tracked wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// ExistsByUserAndAddress checks if the user already tracks the address
func (r *WalletRepository) ExistsByUserAndAddress(ctx context.Context, userID uuid.UUID, address string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tracked_wallets WHERE user_id = $1 AND address = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, address).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tracked wallet existence: %w", err)
	}

	return exists, nil
}
