package user

import (
	"context"

	"bookstore-be/internal/auth"
	"bookstore-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Register creates the account and returns a signed token.
	Register(ctx context.Context, name, email, password string) (string, *User, error)

	// Login verifies credentials. Failures are reported with a single
	// generic error so the response does not leak which part was wrong.
	Login(ctx context.Context, email, password string) (string, *User, error)

	GetByID(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, name, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("email", email),
	)

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	u := &User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     RoleUser,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		log.Warn("failed to create user", zap.Error(err))
		return "", nil, err
	}

	token, err := auth.GenerateJWT(u.ID, u.Name, u.Email, string(u.Role))
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("user registered", zap.String("user_id", u.ID))
	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, u.Name, u.Email, string(u.Role))
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
