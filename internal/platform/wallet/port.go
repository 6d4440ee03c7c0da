package wallet

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for tracked wallet data access
type Repository interface {
	// Create creates a new tracked wallet
	Create(ctx context.Context, w *TrackedWallet) error

	// GetByID retrieves a tracked wallet by ID
	GetByID(ctx context.Context, id uuid.UUID) (*TrackedWallet, error)

	// GetByUserID retrieves all tracked wallets for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*TrackedWallet, error)

	// Delete deletes a tracked wallet by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByUserAndAddress checks if the user already tracks the address
	ExistsByUserAndAddress(ctx context.Context, userID uuid.UUID, address string) (bool, error)
}
