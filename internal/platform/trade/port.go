package trade

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for trade persistence operations
type Repository interface {
	// Create creates a new trade. Returns ErrDuplicateSignature when the
	// (user_id, transaction_signature) unique index rejects the insert.
	Create(ctx context.Context, t *Trade) error

	// GetByID retrieves a trade by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Trade, error)

	// GetByUserID retrieves all trades for a user, oldest first
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Trade, error)

	// GetByUserAndContract retrieves a user's trades for one token, oldest first
	GetByUserAndContract(ctx context.Context, userID uuid.UUID, contractAddress string) ([]*Trade, error)

	// ExistsBySignature checks if the user already has a trade with the signature
	ExistsBySignature(ctx context.Context, userID uuid.UUID, signature string) (bool, error)

	// Update updates an existing trade
	Update(ctx context.Context, t *Trade) error

	// Delete deletes a trade by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
