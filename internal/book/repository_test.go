package book

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookCols = []string{
	"id", "title", "author", "description", "category", "language",
	"price", "discounted_price", "stock", "rating_total", "rating_count",
	"aggregated_rating", "created_at",
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(bookCols).AddRow(
			"book-1", "Solaris", "S. Lem", "a planet that thinks", "sci-fi", "pl",
			"39.99", "29.99", 5, 6, 2, 3.0, time.Now(),
		)
		mock.ExpectQuery(`SELECT (.+) FROM books WHERE id = \$1`).
			WithArgs("book-1").
			WillReturnRows(rows)

		b, err := repo.GetByID(ctx, "book-1")
		require.NoError(t, err)

		assert.Equal(t, "Solaris", b.Title)
		assert.Equal(t, 5, b.Stock)
		assert.Equal(t, "39.99", b.Price.String())
		require.NotNil(t, b.DiscountedPrice)
		assert.Equal(t, "29.99", b.DiscountedPrice.String())
		require.NotNil(t, b.AggregatedRating)
		assert.Equal(t, 3.0, *b.AggregatedRating)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null discount and rating", func(t *testing.T) {
		rows := sqlmock.NewRows(bookCols).AddRow(
			"book-2", "Lalka", "B. Prus", "", "classic", "pl",
			"25.00", nil, 3, 0, 0, nil, time.Now(),
		)
		mock.ExpectQuery(`SELECT (.+) FROM books WHERE id = \$1`).
			WithArgs("book-2").
			WillReturnRows(rows)

		b, err := repo.GetByID(ctx, "book-2")
		require.NoError(t, err)

		assert.Nil(t, b.DiscountedPrice)
		assert.Nil(t, b.AggregatedRating)
		assert.True(t, b.SalePrice().Equal(b.Price))
	})

	t.Run("not found returns nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM books WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(bookCols))

		b, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, b)
	})
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("filters compose", func(t *testing.T) {
		rows := sqlmock.NewRows(bookCols).AddRow(
			"book-1", "Solaris", "S. Lem", "", "sci-fi", "pl",
			"39.99", nil, 5, 0, 0, nil, time.Now(),
		)
		mock.ExpectQuery(`SELECT (.+) FROM books WHERE 1=1 AND category = \$1 AND \(title ILIKE \$2 OR author ILIKE \$2\) ORDER BY created_at DESC`).
			WithArgs("sci-fi", "%lem%").
			WillReturnRows(rows)

		books, err := repo.List(ctx, ListFilter{Category: "sci-fi", Search: "lem"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Solaris", books[0].Title)
	})

	t.Run("no filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM books WHERE 1=1 ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(bookCols))

		books, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestRepository_DecrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE books SET stock = stock - \$1 WHERE id = \$2 AND stock >= \$1`).
			WithArgs(3, "book-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DecrementStock(ctx, "book-1", 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when condition does not hold", func(t *testing.T) {
		mock.ExpectExec(`UPDATE books SET stock = stock - \$1 WHERE id = \$2 AND stock >= \$1`).
			WithArgs(10, "book-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DecrementStock(ctx, "book-1", 10)
		assert.ErrorIs(t, err, ErrStockConflict)
	})
}

func TestRepository_IncrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE books SET stock = stock \+ \$1 WHERE id = \$2`).
			WithArgs(2, "book-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.IncrementStock(ctx, "book-1", 2))
	})

	t.Run("unknown book", func(t *testing.T) {
		mock.ExpectExec(`UPDATE books SET stock = stock \+ \$1 WHERE id = \$2`).
			WithArgs(2, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.IncrementStock(ctx, "missing", 2)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_UpdateRatingAggregate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("writes aggregate", func(t *testing.T) {
		agg := 3.5
		mock.ExpectExec(`UPDATE books SET rating_total = \$1, rating_count = \$2, aggregated_rating = \$3 WHERE id = \$4`).
			WithArgs(7, 2, 3.5, "book-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateRatingAggregate(ctx, "book-1", 7, 2, &agg))
	})

	t.Run("clears aggregate when no reviews remain", func(t *testing.T) {
		mock.ExpectExec(`UPDATE books SET rating_total = \$1, rating_count = \$2, aggregated_rating = \$3 WHERE id = \$4`).
			WithArgs(0, 0, nil, "book-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateRatingAggregate(ctx, "book-1", 0, 0, nil))
	})
}
