package book

import "context"

type Service interface {
	Get(ctx context.Context, id string) (*Book, error)
	List(ctx context.Context, filter ListFilter) ([]*Book, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id string) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Book, error) {
	return s.repo.List(ctx, filter)
}
