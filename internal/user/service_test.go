package user

import (
	"context"
	"testing"

	"bookstore-be/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		token, u, err := svc.Register(ctx, "Jan", "jan@example.com", "s3cret")
		require.NoError(t, err)

		assert.NotEmpty(t, token)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, RoleUser, u.Role)
		assert.NotEqual(t, "s3cret", u.Password, "password stored hashed")
		assert.True(t, auth.CheckPasswordHash("s3cret", u.Password))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(ErrEmailExists)

		_, _, err := svc.Register(ctx, "Jan", "jan@example.com", "s3cret")
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	hashed, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	stored := &User{
		ID:       "user-1",
		Name:     "Jan",
		Email:    "jan@example.com",
		Password: hashed,
		Role:     RoleUser,
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "jan@example.com").Return(stored, nil)

		token, u, err := svc.Login(ctx, "jan@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "user-1", u.ID)

		claims, err := auth.ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "jan@example.com").Return(stored, nil)

		_, _, err := svc.Login(ctx, "jan@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
