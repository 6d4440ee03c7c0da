package wallet

import (
	"time"

	"github.com/google/uuid"
)

// TrackedWallet represents a Solana wallet a user follows for trade ingestion.
// Tracking is per-user: several users may track the same on-chain address,
// each through their own row.
type TrackedWallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Label     string
	Address   string
	CreatedAt time.Time
}

// ValidateCreate validates tracked wallet fields for creation
func (w *TrackedWallet) ValidateCreate() error {
	if w.UserID == uuid.Nil {
		return ErrInvalidUserID
	}

	if len(w.Label) > 100 {
		return ErrLabelTooLong
	}

	addr, err := ValidateAddress(w.Address)
	if err != nil {
		return err
	}
	w.Address = addr

	return nil
}
