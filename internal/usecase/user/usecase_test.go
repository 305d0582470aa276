package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "github.com/yashness/azure-swa-demo/internal/domain/user"
	apperrors "github.com/yashness/azure-swa-demo/pkg/errors"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateAll(ctx context.Context, users []domain.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func setupTest(t *testing.T) (*Usecase, *MockRepository) {
	repo := new(MockRepository)
	uc := New(repo, zaptest.NewLogger(t))
	// Keep test runs fast; the production backoff starts at one second
	uc.baseBackoff = time.Millisecond
	return uc, repo
}

func TestBootstrap(t *testing.T) {
	t.Run("seeds empty database", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Migrate", mock.Anything).Return(nil)
		repo.On("Count", mock.Anything).Return(int64(0), nil)
		repo.On("CreateAll", mock.Anything, seedUsers).Return(nil)

		require.NoError(t, uc.Bootstrap(context.Background()))
		repo.AssertExpectations(t)
	})

	t.Run("skips seed when rows exist", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Migrate", mock.Anything).Return(nil)
		repo.On("Count", mock.Anything).Return(int64(5), nil)

		require.NoError(t, uc.Bootstrap(context.Background()))
		repo.AssertNotCalled(t, "CreateAll", mock.Anything, mock.Anything)
	})

	t.Run("treats seed conflict as concurrent racer success", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Migrate", mock.Anything).Return(nil)
		repo.On("Count", mock.Anything).Return(int64(0), nil)
		repo.On("CreateAll", mock.Anything, seedUsers).
			Return(apperrors.NewAlreadyExistsError("user", "one or more users already exist"))

		// The uniqueness violation means another worker won the race
		require.NoError(t, uc.Bootstrap(context.Background()))
	})

	t.Run("retries transient migrate failure then succeeds", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Migrate", mock.Anything).Return(errors.New("connection refused")).Twice()
		repo.On("Migrate", mock.Anything).Return(nil).Once()
		repo.On("Count", mock.Anything).Return(int64(5), nil)

		require.NoError(t, uc.Bootstrap(context.Background()))
		repo.AssertNumberOfCalls(t, "Migrate", 3)
	})

	t.Run("reports exhausted retry budget without panicking", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Migrate", mock.Anything).Return(errors.New("connection refused"))

		err := uc.Bootstrap(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema creation failed after retries")
		repo.AssertNumberOfCalls(t, "Migrate", 3)
	})

	t.Run("stops retrying on context cancellation", func(t *testing.T) {
		uc, repo := setupTest(t)
		uc.baseBackoff = time.Minute

		repo.On("Migrate", mock.Anything).Return(errors.New("connection refused"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := uc.Bootstrap(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("returns created record with assigned id", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Create", mock.Anything, &domain.User{Name: "Zoe", Email: "zoe@example.com"}).
			Return(int64(6), nil)

		resp, err := uc.CreateUser(context.Background(), CreateUserRequest{Name: "Zoe", Email: "zoe@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(6), resp.ID)
		assert.Equal(t, "Zoe", resp.Name)
		assert.Equal(t, "zoe@example.com", resp.Email)
	})

	t.Run("propagates conflict error", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("Create", mock.Anything, mock.Anything).
			Return(int64(0), apperrors.NewAlreadyExistsError("user", "user with email zoe@example.com already exists"))

		resp, err := uc.CreateUser(context.Background(), CreateUserRequest{Name: "Zoe", Email: "zoe@example.com"})
		require.Error(t, err)
		assert.Nil(t, resp)

		var exists *apperrors.AlreadyExistsError
		assert.ErrorAs(t, err, &exists)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("returns record", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.User{ID: 1, Name: "Alice Johnson", Email: "alice@example.com"}, nil)

		resp, err := uc.GetUser(context.Background(), GetUserRequest{ID: 1})
		require.NoError(t, err)
		assert.Equal(t, "Alice Johnson", resp.Name)
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("GetByID", mock.Anything, int64(42)).
			Return(nil, apperrors.NewNotFoundError("user", "user not found: id=42"))

		resp, err := uc.GetUser(context.Background(), GetUserRequest{ID: 42})
		require.Error(t, err)
		assert.Nil(t, resp)

		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("non-positive id is not found, never a repo call", func(t *testing.T) {
		uc, repo := setupTest(t)

		_, err := uc.GetUser(context.Background(), GetUserRequest{ID: 0})
		require.Error(t, err)

		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("maps all records", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("List", mock.Anything).Return([]domain.User{
			{ID: 1, Name: "Alice Johnson", Email: "alice@example.com"},
			{ID: 2, Name: "Bob Smith", Email: "bob@example.com"},
		}, nil)

		users, err := uc.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, int64(2), users[1].ID)
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		uc, repo := setupTest(t)

		repo.On("List", mock.Anything).Return([]domain.User{}, nil)

		users, err := uc.ListUsers(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}
