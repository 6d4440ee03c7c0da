package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service handles tracked wallet business logic
type Service struct {
	repo Repository
}

// NewService creates a new wallet service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create starts tracking a wallet address for a user
func (s *Service) Create(ctx context.Context, w *TrackedWallet) (*TrackedWallet, error) {
	if err := w.ValidateCreate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUserAndAddress(ctx, w.UserID, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to check tracked wallet: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAddress
	}

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create tracked wallet: %w", err)
	}

	return w, nil
}

// List retrieves all tracked wallets for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*TrackedWallet, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetByID retrieves a tracked wallet, enforcing ownership
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*TrackedWallet, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}
	return w, nil
}

// Delete stops tracking a wallet, enforcing ownership
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
