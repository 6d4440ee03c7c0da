package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service handles trade business logic
type Service struct {
	repo Repository
}

// NewService creates a new trade service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a manually entered trade
func (s *Service) Create(ctx context.Context, t *Trade) (*Trade, error) {
	if err := t.ValidateCreate(); err != nil {
		return nil, err
	}

	if t.TransactionSignature != nil && *t.TransactionSignature != "" {
		exists, err := s.repo.ExistsBySignature(ctx, t.UserID, *t.TransactionSignature)
		if err != nil {
			return nil, fmt.Errorf("failed to check signature: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSignature
		}
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	return t, nil
}

// List retrieves all trades for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Trade, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// ListByContract retrieves a user's trades for a single token
func (s *Service) ListByContract(ctx context.Context, userID uuid.UUID, contractAddress string) ([]*Trade, error) {
	if contractAddress == "" {
		return nil, ErrMissingContractAddress
	}
	return s.repo.GetByUserAndContract(ctx, userID, contractAddress)
}

// GetByID retrieves a trade, enforcing ownership
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*Trade, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}
	return t, nil
}

// Update updates a trade's editable fields, enforcing ownership.
// The transaction signature and source are never changed by edits, so the
// ingestion dedup key stays intact for ingested rows.
func (s *Service) Update(ctx context.Context, t *Trade, userID uuid.UUID) (*Trade, error) {
	existing, err := s.GetByID(ctx, t.ID, userID)
	if err != nil {
		return nil, err
	}

	if t.ContractAddress == "" {
		return nil, ErrMissingContractAddress
	}
	if t.BuyAmount.IsNegative() || t.SellAmount.IsNegative() || t.TokenAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	existing.ContractAddress = t.ContractAddress
	existing.TokenName = t.TokenName
	existing.TokenSymbol = t.TokenSymbol
	existing.TokenImage = t.TokenImage
	existing.BuyAmount = t.BuyAmount
	existing.SellAmount = t.SellAmount
	existing.TokenAmount = t.TokenAmount
	existing.Setup = t.Setup
	existing.Emotion = t.Emotion
	existing.Mistakes = t.Mistakes
	existing.Notes = t.Notes
	existing.IsShared = t.IsShared
	if !t.Date.IsZero() {
		existing.Date = t.Date
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}

	return existing, nil
}

// Delete deletes a trade, enforcing ownership
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
