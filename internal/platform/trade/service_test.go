package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, t *Trade) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Trade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trade), args.Error(1)
}

func (m *mockRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Trade, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Trade), args.Error(1)
}

func (m *mockRepository) GetByUserAndContract(ctx context.Context, userID uuid.UUID, contractAddress string) ([]*Trade, error) {
	args := m.Called(ctx, userID, contractAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Trade), args.Error(1)
}

func (m *mockRepository) ExistsBySignature(ctx context.Context, userID uuid.UUID, signature string) (bool, error) {
	args := m.Called(ctx, userID, signature)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, t *Trade) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validTrade(userID uuid.UUID) *Trade {
	return &Trade{
		UserID:          userID,
		ContractAddress: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
		BuyAmount:       decimal.RequireFromString("1.5"),
		TokenAmount:     decimal.NewFromInt(1000),
		Date:            time.Now(),
	}
}

func TestService_Create(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	userID := uuid.New()

	tr := validTrade(userID)
	repo.On("Create", mock.Anything, tr).Return(nil)

	created, err := svc.Create(context.Background(), tr)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, SourceManual, created.Source, "source defaults to manual")
	assert.False(t, created.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(new(mockRepository))
	userID := uuid.New()

	t.Run("missing contract address", func(t *testing.T) {
		tr := validTrade(userID)
		tr.ContractAddress = ""
		_, err := svc.Create(context.Background(), tr)
		assert.ErrorIs(t, err, ErrMissingContractAddress)
	})

	t.Run("negative amount", func(t *testing.T) {
		tr := validTrade(userID)
		tr.BuyAmount = decimal.RequireFromString("-1")
		_, err := svc.Create(context.Background(), tr)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("unknown source", func(t *testing.T) {
		tr := validTrade(userID)
		tr.Source = "telepathy"
		_, err := svc.Create(context.Background(), tr)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("missing user", func(t *testing.T) {
		tr := validTrade(uuid.Nil)
		_, err := svc.Create(context.Background(), tr)
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})
}

func TestService_Create_SignaturePreCheck(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	userID := uuid.New()

	sig := "5KtP3xyz"
	tr := validTrade(userID)
	tr.TransactionSignature = &sig

	repo.On("ExistsBySignature", mock.Anything, userID, sig).Return(true, nil)

	_, err := svc.Create(context.Background(), tr)
	assert.ErrorIs(t, err, ErrDuplicateSignature)
	repo.AssertNotCalled(t, "Create")
}

func TestService_GetByID_EnforcesOwnership(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	stored := validTrade(owner)
	stored.ID = uuid.New()

	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := svc.GetByID(context.Background(), stored.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)

	got, err := svc.GetByID(context.Background(), stored.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
}

func TestService_Update_PreservesSignatureAndSource(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	sig := "ingested-sig"
	stored := validTrade(owner)
	stored.ID = uuid.New()
	stored.TransactionSignature = &sig
	stored.Source = SourceIngested

	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(tr *Trade) bool {
		return tr.TransactionSignature != nil && *tr.TransactionSignature == sig &&
			tr.Source == SourceIngested
	})).Return(nil)

	edit := validTrade(owner)
	edit.ID = stored.ID
	edit.Emotion = []string{"fomo"}
	edit.Setup = []string{"breakout"}

	updated, err := svc.Update(context.Background(), edit, owner)

	require.NoError(t, err)
	assert.Equal(t, []string{"fomo"}, updated.Emotion)
	assert.Equal(t, SourceIngested, updated.Source)
	require.NotNil(t, updated.TransactionSignature)
	assert.Equal(t, sig, *updated.TransactionSignature)
	repo.AssertExpectations(t)
}

func TestService_Delete_EnforcesOwnership(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	stored := validTrade(owner)
	stored.ID = uuid.New()

	repo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	err := svc.Delete(context.Background(), stored.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
	repo.AssertNotCalled(t, "Delete")
}
