package order

import (
	"context"
	"errors"
	"time"

	"bookstore-be/internal/book"
	"bookstore-be/internal/cart"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor identifies who is performing an order operation.
type Actor struct {
	Owner   cart.Owner
	IsAdmin bool
}

type Service interface {
	// Confirm turns the owner's cart into an immutable order. Each item's
	// stock is decremented with the atomic conditional update; a conflict
	// on one item aborts the checkout but does not roll back decrements
	// already applied to earlier items.
	Confirm(ctx context.Context, owner cart.Owner, form CheckoutForm) (*Order, error)

	// Cancel restocks every item and marks the order cancelled. Allowed
	// only while the order is pending; the 30-second deadline itself is
	// advisory and not enforced here.
	Cancel(ctx context.Context, orderID string, actor Actor) (*Order, error)

	Get(ctx context.Context, orderID string, actor Actor) (*Order, error)
	ListByOwner(ctx context.Context, owner cart.Owner) ([]*Order, error)

	// UpdateStatus is the admin action. Any of the five named statuses is
	// accepted from any other; there is no transition graph.
	UpdateStatus(ctx context.Context, orderID string, status Status, actor Actor) error

	// Delete hard-deletes the order with no stock side effects.
	Delete(ctx context.Context, orderID string, actor Actor) error

	// Stats reports how many orders were confirmed and how many checkouts
	// lost the stock race since startup.
	Stats() (confirmed, stockConflicts uint64)
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	bookRepo book.Repository

	confirmed      metrics.Counter
	stockConflicts metrics.Counter
}

func NewService(repo Repository, cartRepo cart.Repository, bookRepo book.Repository) Service {
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

func (s *service) Confirm(ctx context.Context, owner cart.Owner, form CheckoutForm) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Confirm"),
		zap.String("owner_kind", string(owner.Kind)),
		zap.String("owner_id", owner.ID),
	)
	timer := metrics.StartTimer()

	if err := ValidateCheckoutForm(form); err != nil {
		return nil, err
	}

	c, err := s.cartRepo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// Authoritative stock check. The cart-time check was only a hint;
	// another confirmation may have drained the shelf since. Items are
	// decremented one by one and a failure leaves earlier decrements in
	// place.
	for _, item := range c.Items {
		err := s.bookRepo.DecrementStock(ctx, item.BookID, item.Quantity)
		if errors.Is(err, book.ErrStockConflict) {
			s.stockConflicts.Inc()
			log.Warn("stock conflict at confirmation",
				zap.String("book_id", item.BookID),
				zap.Int("quantity", item.Quantity),
			)
			return nil, &StockConflictError{BookID: item.BookID, Requested: item.Quantity}
		}
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	deliveryCost := DeliveryCostFor(form.Delivery)

	o := &Order{
		ID:           uuid.NewString(),
		Owner:        owner,
		Items:        snapshotItems(c.Items),
		Subtotal:     c.Total,
		DeliveryCost: deliveryCost,
		Total:        c.Total.Add(deliveryCost),
		CustomerInfo: CustomerInfo{
			Name:  form.Name,
			Phone: form.Phone,
			Address: Address{
				Street:     form.Street,
				City:       form.City,
				PostalCode: form.PostalCode,
			},
		},
		Delivery:       form.Delivery,
		PaymentMethod:  form.PaymentMethod,
		PaymentDetails: redactPaymentDetails(form),
		Status:         StatusPending,
		Date:           now,
		CancelDeadline: now.Add(CancelWindow),
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	if err := s.cartRepo.Delete(ctx, owner); err != nil {
		// The order exists; a stale cart is the lesser evil. Surface in
		// logs only.
		log.Error("failed to clear cart after checkout", zap.Error(err))
	}

	s.confirmed.Inc()
	log.Info("order confirmed",
		zap.String("order_id", o.ID),
		zap.String("total", o.Total.String()),
		zap.Int("items", len(o.Items)),
		zap.Duration("duration", timer.Duration()),
	)

	return o, nil
}

func (s *service) Cancel(ctx context.Context, orderID string, actor Actor) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("order_id", orderID),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if !actor.IsAdmin && o.Owner != actor.Owner {
		return nil, ErrUnauthorized
	}

	if o.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	for _, item := range o.Items {
		if err := s.bookRepo.IncrementStock(ctx, item.BookID, item.Quantity); err != nil {
			log.Error("failed to restock item",
				zap.String("book_id", item.BookID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	if err := s.repo.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		return nil, err
	}

	o.Status = StatusCancelled
	log.Info("order cancelled", zap.Int("items", len(o.Items)))
	return o, nil
}

func (s *service) Get(ctx context.Context, orderID string, actor Actor) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if !actor.IsAdmin && o.Owner != actor.Owner {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) ListByOwner(ctx context.Context, owner cart.Owner) ([]*Order, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status Status, actor Actor) error {
	if !actor.IsAdmin {
		return ErrUnauthorized
	}
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, orderID, status)
}

func (s *service) Delete(ctx context.Context, orderID string, actor Actor) error {
	if !actor.IsAdmin {
		return ErrUnauthorized
	}

	// Hard delete, no restock: a pending order's decrement stays applied.
	return s.repo.Delete(ctx, orderID)
}

func (s *service) Stats() (uint64, uint64) {
	return s.confirmed.Load(), s.stockConflicts.Load()
}

func snapshotItems(items []cart.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, Item{
			BookID:   item.BookID,
			Title:    item.Title,
			Author:   item.Author,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return out
}
