package review

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rev *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	Update(ctx context.Context, rev *Review) error
	Delete(ctx context.Context, id string) error
	ListForBook(ctx context.Context, bookID string, limit, offset int) ([]*Review, error)

	// AggregateForBook recomputes the rating sum and count from the full
	// review set. This is the source of truth the book summary is derived
	// from.
	AggregateForBook(ctx context.Context, bookID string) (total, count int, err error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rev *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, book_id, user_id, user_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rev.ID, rev.BookID, rev.UserID, rev.UserName, rev.Rating, rev.Comment, rev.CreatedAt)
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Review, error) {
	var (
		rev       Review
		updatedAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, book_id, user_id, user_name, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`, id).Scan(
		&rev.ID, &rev.BookID, &rev.UserID, &rev.UserName,
		&rev.Rating, &rev.Comment, &rev.CreatedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		rev.UpdatedAt = &updatedAt.Time
	}

	return &rev, nil
}

// Update persists the new rating and comment and refreshes rev.UpdatedAt
// with the timestamp the database actually wrote.
func (r *repository) Update(ctx context.Context, rev *Review) error {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, rev.Rating, rev.Comment, rev.ID).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}

	rev.UpdatedAt = &updatedAt
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *repository) ListForBook(ctx context.Context, bookID string, limit, offset int) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, book_id, user_id, user_name, rating, comment, created_at, updated_at
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, bookID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var (
			rev       Review
			updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&rev.ID, &rev.BookID, &rev.UserID, &rev.UserName,
			&rev.Rating, &rev.Comment, &rev.CreatedAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			rev.UpdatedAt = &updatedAt.Time
		}
		reviews = append(reviews, &rev)
	}

	return reviews, rows.Err()
}

func (r *repository) AggregateForBook(ctx context.Context, bookID string) (int, int, error) {
	var total, count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(rating), 0), COUNT(*)
		FROM reviews
		WHERE book_id = $1
	`, bookID).Scan(&total, &count)
	if err != nil {
		return 0, 0, err
	}
	return total, count, nil
}
