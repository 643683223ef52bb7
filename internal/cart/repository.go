package cart

import (
	"context"
	"database/sql"
	"time"

	"bookstore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// GetByOwner loads the owner's cart with its items in insertion order.
	// Returns (nil, nil) when the owner has no cart yet.
	GetByOwner(ctx context.Context, owner Owner) (*Cart, error)

	// Create inserts a new cart with its items.
	Create(ctx context.Context, c *Cart) error

	// Save overwrites the cart's items, total and expiry in one
	// transaction. The whole item list is replaced, mirroring a single
	// document write.
	Save(ctx context.Context, c *Cart) error

	// Delete removes the owner's cart and its items. Deleting an absent
	// cart is not an error.
	Delete(ctx context.Context, owner Owner) error

	// DeleteExpired reclaims guest carts whose expires_at has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByOwner(ctx context.Context, owner Owner) (*Cart, error) {
	c := &Cart{Owner: owner}

	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, total, expires_at, created_at, updated_at
		FROM carts
		WHERE owner_kind = $1 AND owner_id = $2
	`, owner.Kind, owner.ID).Scan(&c.ID, &c.Total, &expiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		c.ExpiresAt = &expiresAt.Time
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT book_id, title, author, price, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY position ASC
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.BookID, &item.Title, &item.Author, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *repository) Create(ctx context.Context, c *Cart) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("owner_kind", string(c.Owner.Kind)),
		zap.String("owner_id", c.Owner.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO carts (id, owner_kind, owner_id, total, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Owner.Kind, c.Owner.ID, c.Total, nullableTime(c.ExpiresAt))
	if err != nil {
		log.Error("failed to insert cart", zap.Error(err))
		return err
	}

	if err := insertItems(ctx, tx, c); err != nil {
		log.Error("failed to insert cart items", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func (r *repository) Save(ctx context.Context, c *Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET total = $1, expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, c.Total, nullableTime(c.ExpiresAt), c.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, c.ID)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, c); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, owner Owner) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE owner_kind = $1 AND owner_id = $2
	`, owner.Kind, owner.ID)
	return err
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE expires_at IS NOT NULL AND expires_at < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func insertItems(ctx context.Context, tx *sql.Tx, c *Cart) error {
	for i, item := range c.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, book_id, title, author, price, quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, c.ID, item.BookID, item.Title, item.Author, item.Price, item.Quantity, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
