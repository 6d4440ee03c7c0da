package journal

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for journal entry persistence
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
