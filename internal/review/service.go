package review

import (
	"context"
	"math"
	"strings"
	"time"

	"bookstore-be/internal/book"
	"bookstore-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles review writes and keeps the book's rating summary
// consistent with them. After every write the summary is recomputed from
// the complete review set, so concurrent writers converge on the next
// pass instead of drifting.
type Service interface {
	Create(ctx context.Context, actor Actor, bookID string, rating int, comment string) (*Review, error)
	Update(ctx context.Context, actor Actor, reviewID string, rating int, comment string) (*Review, error)
	Delete(ctx context.Context, actor Actor, reviewID string) error
	ListForBook(ctx context.Context, bookID string, page int) ([]*Review, error)
}

type service struct {
	repo     Repository
	bookRepo book.Repository
}

func NewService(repo Repository, bookRepo book.Repository) Service {
	return &service{repo: repo, bookRepo: bookRepo}
}

func (s *service) Create(ctx context.Context, actor Actor, bookID string, rating int, comment string) (*Review, error) {
	if err := validate(rating, comment); err != nil {
		return nil, err
	}

	b, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}

	rev := &Review{
		ID:        uuid.NewString(),
		BookID:    bookID,
		UserID:    actor.UserID,
		UserName:  actor.Name,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, bookID); err != nil {
		return nil, err
	}

	return rev, nil
}

func (s *service) Update(ctx context.Context, actor Actor, reviewID string, rating int, comment string) (*Review, error) {
	if err := validate(rating, comment); err != nil {
		return nil, err
	}

	rev, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, ErrReviewNotFound
	}

	if !actor.IsAdmin && rev.UserID != actor.UserID {
		return nil, ErrUnauthorized
	}

	rev.Rating = rating
	rev.Comment = strings.TrimSpace(comment)

	if err := s.repo.Update(ctx, rev); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, rev.BookID); err != nil {
		return nil, err
	}

	return rev, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, reviewID string) error {
	rev, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev == nil {
		return ErrReviewNotFound
	}

	if !actor.IsAdmin && rev.UserID != actor.UserID {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}

	return s.recomputeRating(ctx, rev.BookID)
}

func (s *service) ListForBook(ctx context.Context, bookID string, page int) ([]*Review, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * ReviewsPageSize
	return s.repo.ListForBook(ctx, bookID, ReviewsPageSize, offset)
}

// recomputeRating scans the full review set and overwrites the book's
// summary. The review write and the book write are two separate
// statements; an interleaved writer is healed by whichever recomputation
// runs last.
func (s *service) recomputeRating(ctx context.Context, bookID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "recomputeRating"),
		zap.String("book_id", bookID),
	)

	total, count, err := s.repo.AggregateForBook(ctx, bookID)
	if err != nil {
		log.Error("failed to aggregate reviews", zap.Error(err))
		return err
	}

	var aggregated *float64
	if count > 0 {
		avg := math.Round(float64(total)/float64(count)*10) / 10
		aggregated = &avg
	}

	if err := s.bookRepo.UpdateRatingAggregate(ctx, bookID, total, count, aggregated); err != nil {
		log.Error("failed to write rating aggregate", zap.Error(err))
		return err
	}

	return nil
}

func validate(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	return nil
}
