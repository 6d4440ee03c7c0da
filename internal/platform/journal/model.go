package journal

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents a free-form journal entry
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	Mood      string
	Tags      []string
	EntryDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCreate validates entry fields for creation
func (e *Entry) ValidateCreate() error {
	if e.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if e.Title == "" {
		return ErrMissingTitle
	}
	if len(e.Title) > 200 {
		return ErrTitleTooLong
	}
	if e.EntryDate.IsZero() {
		e.EntryDate = time.Now()
	}
	return nil
}
