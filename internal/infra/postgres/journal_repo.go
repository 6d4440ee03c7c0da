package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avkuzmin/tradetape/internal/platform/journal"
)

// JournalRepository implements the journal entry repository using PostgreSQL
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new PostgreSQL journal entry repository
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

var _ journal.Repository = (*JournalRepository)(nil)

// Create creates a new journal entry
func (r *JournalRepository) Create(ctx context.Context, e *journal.Entry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, title, content, mood, tags, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.Title,
		e.Content,
		e.Mood,
		e.Tags,
		e.EntryDate,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	return nil
}

// GetByID retrieves a journal entry by ID
func (r *JournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	query := `
		SELECT id, user_id, title, content, mood, tags, entry_date, created_at, updated_at
		FROM journal_entries
		WHERE id = $1
	`

	var e journal.Entry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Content,
		&e.Mood,
		&e.Tags,
		&e.EntryDate,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, journal.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return &e, nil
}

// GetByUserID retrieves all journal entries for a user, newest first
func (r *JournalRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*journal.Entry, error) {
	query := `
		SELECT id, user_id, title, content, mood, tags, entry_date, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*journal.Entry
	for rows.Next() {
		var e journal.Entry
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Title,
			&e.Content,
			&e.Mood,
			&e.Tags,
			&e.EntryDate,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}

	return entries, nil
}

// Update updates a journal entry
func (r *JournalRepository) Update(ctx context.Context, e *journal.Entry) error {
	query := `
		UPDATE journal_entries
		SET title = $2, content = $3, mood = $4, tags = $5, entry_date = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		e.ID,
		e.Title,
		e.Content,
		e.Mood,
		e.Tags,
		e.EntryDate,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return journal.ErrEntryNotFound
	}

	return nil
}

// Delete deletes a journal entry by ID
func (r *JournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM journal_entries WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return journal.ErrEntryNotFound
	}

	return nil
}
