package journal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, e *Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Entry), args.Error(1)
}

func (m *mockRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Entry), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, e *Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validEntry(userID uuid.UUID) *Entry {
	return &Entry{
		UserID:    userID,
		Title:     "Revenge trading again",
		Content:   "Took three losses and kept sizing up.",
		Mood:      "frustrated",
		Tags:      []string{"discipline"},
		EntryDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_Create(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	userID := uuid.New()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).Return(nil)

	e, err := svc.Create(context.Background(), validEntry(userID))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	userID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(e *Entry)
		wantErr error
	}{
		{"missing user", func(e *Entry) { e.UserID = uuid.Nil }, ErrInvalidUserID},
		{"missing title", func(e *Entry) { e.Title = "" }, ErrMissingTitle},
		{"title too long", func(e *Entry) { e.Title = strings.Repeat("x", 201) }, ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry(userID)
			tt.mutate(e)

			_, err := svc.Create(context.Background(), e)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	repo.AssertNotCalled(t, "Create")
}

func TestService_GetByID_EnforcesOwnership(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	entryID := uuid.New()
	stored := validEntry(owner)
	stored.ID = entryID

	repo.On("GetByID", mock.Anything, entryID).Return(stored, nil)

	_, err := svc.GetByID(context.Background(), entryID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := svc.GetByID(context.Background(), entryID, owner)
	require.NoError(t, err)
	assert.Equal(t, entryID, got.ID)
}

func TestService_Update_EnforcesOwnershipAndValidation(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	entryID := uuid.New()
	stored := validEntry(owner)
	stored.ID = entryID

	repo.On("GetByID", mock.Anything, entryID).Return(stored, nil)

	// Wrong user never reaches the repository write
	upd := validEntry(owner)
	upd.ID = entryID
	upd.Title = "Edited"
	_, err := svc.Update(context.Background(), upd, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Empty title rejected for the owner too
	blank := validEntry(owner)
	blank.ID = entryID
	blank.Title = ""
	_, err = svc.Update(context.Background(), blank, owner)
	assert.ErrorIs(t, err, ErrMissingTitle)
	repo.AssertNotCalled(t, "Update")

	// Valid update goes through with the edited fields
	repo.On("Update", mock.Anything, mock.MatchedBy(func(e *Entry) bool {
		return e.ID == entryID && e.Title == "Edited" && e.UserID == owner
	})).Return(nil)

	got, err := svc.Update(context.Background(), upd, owner)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	repo.AssertExpectations(t)
}

func TestService_Delete_EnforcesOwnership(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	entryID := uuid.New()
	stored := validEntry(owner)
	stored.ID = entryID

	repo.On("GetByID", mock.Anything, entryID).Return(stored, nil)

	err := svc.Delete(context.Background(), entryID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
	repo.AssertNotCalled(t, "Delete")

	repo.On("Delete", mock.Anything, entryID).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), entryID, owner))
	repo.AssertExpectations(t)
}
