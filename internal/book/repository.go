package book

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bookstore-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Book, error)
	List(ctx context.Context, filter ListFilter) ([]*Book, error)

	// DecrementStock subtracts n units only when at least n units remain.
	// The update is a single conditional statement, so stock can never go
	// negative regardless of concurrent confirmations. Returns
	// ErrStockConflict when the condition does not hold.
	DecrementStock(ctx context.Context, id string, n int) error

	// IncrementStock adds n units back unconditionally (cancellation,
	// restock).
	IncrementStock(ctx context.Context, id string, n int) error

	// UpdateRatingAggregate overwrites the book's rating summary with
	// values recomputed from the full review set. aggregated is nil when
	// the book has no reviews.
	UpdateRatingAggregate(ctx context.Context, id string, total, count int, aggregated *float64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const bookColumns = `
	id,
	title,
	author,
	description,
	category,
	language,
	price,
	discounted_price,
	stock,
	rating_total,
	rating_count,
	aggregated_rating,
	created_at
`

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	var (
		b          Book
		discounted decimal.NullDecimal
		aggregated sql.NullFloat64
	)

	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Description,
		&b.Category,
		&b.Language,
		&b.Price,
		&discounted,
		&b.Stock,
		&b.RatingTotal,
		&b.RatingCount,
		&aggregated,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if discounted.Valid {
		b.DiscountedPrice = &discounted.Decimal
	}
	if aggregated.Valid {
		b.AggregatedRating = &aggregated.Float64
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Book, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	where := []string{"1=1"}
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		where = append(where, fmt.Sprintf("language = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

func (r *repository) DecrementStock(ctx context.Context, id string, n int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`, n, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStockConflict
	}

	return nil
}

func (r *repository) IncrementStock(ctx context.Context, id string, n int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET stock = stock + $1
		WHERE id = $2
	`, n, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookNotFound
	}

	return nil
}

func (r *repository) UpdateRatingAggregate(ctx context.Context, id string, total, count int, aggregated *float64) error {
	var agg sql.NullFloat64
	if aggregated != nil {
		agg = sql.NullFloat64{Float64: *aggregated, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET rating_total = $1,
		    rating_count = $2,
		    aggregated_rating = $3
		WHERE id = $4
	`, total, count, agg, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookNotFound
	}

	return nil
}
