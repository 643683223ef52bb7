package order

import (
	"context"
	"database/sql"

	"bookstore-be/internal/cart"
	"bookstore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// Create persists the order and its item snapshot in one transaction.
	Create(ctx context.Context, o *Order) error

	// GetByID returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id string) (*Order, error)

	// ListByOwner returns the owner's orders, newest first, items loaded.
	ListByOwner(ctx context.Context, owner cart.Owner) ([]*Order, error)

	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		lastFour   sql.NullString
		cardExpiry sql.NullString
		blikUsed   bool
	)
	if o.PaymentDetails != nil {
		if o.PaymentDetails.LastFourDigits != "" {
			lastFour = sql.NullString{String: o.PaymentDetails.LastFourDigits, Valid: true}
			cardExpiry = sql.NullString{String: o.PaymentDetails.ExpiryDate, Valid: true}
		}
		blikUsed = o.PaymentDetails.BlikUsed
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, owner_kind, owner_id,
			subtotal, delivery_cost, total,
			customer_name, customer_phone, street, city, postal_code,
			delivery, payment_method, card_last_four, card_expiry, blik_used,
			status, date, cancel_deadline
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		o.ID, o.Owner.Kind, o.Owner.ID,
		o.Subtotal, o.DeliveryCost, o.Total,
		o.CustomerInfo.Name, o.CustomerInfo.Phone,
		o.CustomerInfo.Address.Street, o.CustomerInfo.Address.City, o.CustomerInfo.Address.PostalCode,
		o.Delivery, o.PaymentMethod, lastFour, cardExpiry, blikUsed,
		o.Status, o.Date, o.CancelDeadline,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, book_id, title, author, price, quantity, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, o.ID, item.BookID, item.Title, item.Author, item.Price, item.Quantity, i)
		if err != nil {
			log.Error("failed to insert order item", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

const orderColumns = `
	id, owner_kind, owner_id,
	subtotal, delivery_cost, total,
	customer_name, customer_phone, street, city, postal_code,
	delivery, payment_method, card_last_four, card_expiry, blik_used,
	status, date, cancel_deadline, updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var (
		o          Order
		lastFour   sql.NullString
		cardExpiry sql.NullString
		blikUsed   bool
	)

	err := row.Scan(
		&o.ID, &o.Owner.Kind, &o.Owner.ID,
		&o.Subtotal, &o.DeliveryCost, &o.Total,
		&o.CustomerInfo.Name, &o.CustomerInfo.Phone,
		&o.CustomerInfo.Address.Street, &o.CustomerInfo.Address.City, &o.CustomerInfo.Address.PostalCode,
		&o.Delivery, &o.PaymentMethod, &lastFour, &cardExpiry, &blikUsed,
		&o.Status, &o.Date, &o.CancelDeadline, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastFour.Valid {
		o.PaymentDetails = &PaymentDetails{
			LastFourDigits: lastFour.String,
			ExpiryDate:     cardExpiry.String,
		}
	} else if blikUsed {
		o.PaymentDetails = &PaymentDetails{BlikUsed: true}
	}

	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) ListByOwner(ctx context.Context, owner cart.Owner) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE owner_kind = $1 AND owner_id = $2
		ORDER BY date DESC
	`, owner.Kind, owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT book_id, title, author, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.BookID, &item.Title, &item.Author, &item.Price, &item.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
