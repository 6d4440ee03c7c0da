package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/journal"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
)

// JournalServiceInterface defines the interface for journal operations
type JournalServiceInterface interface {
	Create(ctx context.Context, e *journal.Entry) (*journal.Entry, error)
	List(ctx context.Context, userID uuid.UUID) ([]*journal.Entry, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*journal.Entry, error)
	Update(ctx context.Context, e *journal.Entry, userID uuid.UUID) (*journal.Entry, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// JournalHandler handles journal entry HTTP requests
type JournalHandler struct {
	journalService JournalServiceInterface
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService JournalServiceInterface) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// JournalEntryRequest represents a journal entry create/update request
type JournalEntryRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Mood      string   `json:"mood"`
	Tags      []string `json:"tags"`
	EntryDate *string  `json:"entry_date"`
}

// JournalEntryResponse represents a journal entry response
type JournalEntryResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Mood      string   `json:"mood"`
	Tags      []string `json:"tags"`
	EntryDate string   `json:"entry_date"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// JournalEntriesListResponse represents the response for listing entries
type JournalEntriesListResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
}

func (req *JournalEntryRequest) toEntry() (*journal.Entry, error) {
	e := &journal.Entry{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Tags:    req.Tags,
	}

	if req.EntryDate != nil && *req.EntryDate != "" {
		date, err := time.Parse(time.RFC3339, *req.EntryDate)
		if err != nil {
			return nil, errors.New("entry_date must be RFC3339")
		}
		e.EntryDate = date
	}

	return e, nil
}

// CreateEntry handles POST /journal
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	e, err := req.toEntry()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.UserID = userID

	created, err := h.journalService.Create(r.Context(), e)
	if err != nil {
		switch {
		case errors.Is(err, journal.ErrMissingTitle):
			respondError(w, "entry title is required", http.StatusBadRequest)
		case errors.Is(err, journal.ErrTitleTooLong):
			respondError(w, "entry title exceeds 200 characters", http.StatusBadRequest)
		default:
			respondError(w, "failed to create journal entry", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, toEntryResponse(created), http.StatusCreated)
}

// GetEntries handles GET /journal
func (h *JournalHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.journalService.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to fetch journal entries", http.StatusInternalServerError)
		return
	}

	responses := make([]JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toEntryResponse(e))
	}

	respondJSON(w, JournalEntriesListResponse{Entries: responses}, http.StatusOK)
}

// GetEntry handles GET /journal/{id}
func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid entry ID", http.StatusBadRequest)
		return
	}

	e, err := h.journalService.GetByID(r.Context(), entryID, userID)
	if err != nil {
		respondJournalError(w, err)
		return
	}

	respondJSON(w, toEntryResponse(e), http.StatusOK)
}

// UpdateEntry handles PUT /journal/{id}
func (h *JournalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid entry ID", http.StatusBadRequest)
		return
	}

	var req JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	e, err := req.toEntry()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.ID = entryID

	updated, err := h.journalService.Update(r.Context(), e, userID)
	if err != nil {
		switch {
		case errors.Is(err, journal.ErrMissingTitle):
			respondError(w, "entry title is required", http.StatusBadRequest)
		case errors.Is(err, journal.ErrTitleTooLong):
			respondError(w, "entry title exceeds 200 characters", http.StatusBadRequest)
		default:
			respondJournalError(w, err)
		}
		return
	}

	respondJSON(w, toEntryResponse(updated), http.StatusOK)
}

// DeleteEntry handles DELETE /journal/{id}
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid entry ID", http.StatusBadRequest)
		return
	}

	if err := h.journalService.Delete(r.Context(), entryID, userID); err != nil {
		respondJournalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondJournalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrEntryNotFound):
		respondError(w, "journal entry not found", http.StatusNotFound)
	case errors.Is(err, journal.ErrUnauthorized):
		respondError(w, "access denied", http.StatusForbidden)
	default:
		respondError(w, "failed to process journal entry", http.StatusInternalServerError)
	}
}

func toEntryResponse(e *journal.Entry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Title:     e.Title,
		Content:   e.Content,
		Mood:      e.Mood,
		Tags:      e.Tags,
		EntryDate: e.EntryDate.Format(time.RFC3339),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}
