package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service handles journal entry business logic
type Service struct {
	repo Repository
}

// NewService creates a new journal service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new journal entry
func (s *Service) Create(ctx context.Context, e *Entry) (*Entry, error) {
	if err := e.ValidateCreate(); err != nil {
		return nil, err
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return e, nil
}

// List retrieves all journal entries for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Entry, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetByID retrieves an entry, enforcing ownership
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrUnauthorized
	}
	return e, nil
}

// Update updates an entry's editable fields, enforcing ownership
func (s *Service) Update(ctx context.Context, e *Entry, userID uuid.UUID) (*Entry, error) {
	existing, err := s.GetByID(ctx, e.ID, userID)
	if err != nil {
		return nil, err
	}

	if e.Title == "" {
		return nil, ErrMissingTitle
	}
	if len(e.Title) > 200 {
		return nil, ErrTitleTooLong
	}

	existing.Title = e.Title
	existing.Content = e.Content
	existing.Mood = e.Mood
	existing.Tags = e.Tags
	if !e.EntryDate.IsZero() {
		existing.EntryDate = e.EntryDate
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}
	return existing, nil
}

// Delete deletes an entry, enforcing ownership
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
