package cart

import (
	"context"
	"time"

	"bookstore-be/internal/book"
	"bookstore-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns every cart mutation. The stock checks here are optimistic
// hints against the live stock field; the authoritative check happens at
// order confirmation via the conditional decrement.
type Service interface {
	Get(ctx context.Context, owner Owner) (*Cart, error)
	AddItem(ctx context.Context, owner Owner, bookID string, quantity int) (*Cart, error)
	IncreaseQuantity(ctx context.Context, owner Owner, bookID string) (*Cart, error)
	DecreaseQuantity(ctx context.Context, owner Owner, bookID string) (*Cart, error)
	RemoveItem(ctx context.Context, owner Owner, bookID string) (*Cart, error)
	Clear(ctx context.Context, owner Owner) error

	// MergeGuestCart folds a guest cart into the user's cart at login and
	// deletes the guest cart. Quantities are capped at current stock and
	// prices are re-read from the catalog.
	MergeGuestCart(ctx context.Context, guestID, userID string) error
}

type service struct {
	repo     Repository
	bookRepo book.Repository
}

func NewService(repo Repository, bookRepo book.Repository) Service {
	return &service{repo: repo, bookRepo: bookRepo}
}

func (s *service) Get(ctx context.Context, owner Owner) (*Cart, error) {
	return s.repo.GetByOwner(ctx, owner)
}

func (s *service) AddItem(ctx context.Context, owner Owner, bookID string, quantity int) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("owner_id", owner.ID),
		zap.String("book_id", bookID),
		zap.Int("quantity", quantity),
	)

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	b, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}

	c, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	existing := 0
	if c != nil {
		if item := c.findItem(bookID); item != nil {
			existing = item.Quantity
		}
	}

	if existing+quantity > b.Stock {
		log.Warn("stock limit exceeded",
			zap.Int("existing", existing),
			zap.Int("stock", b.Stock),
		)
		return nil, &StockLimitError{Limit: b.Stock}
	}

	if c == nil {
		c = s.newCart(owner)
		c.Items = append(c.Items, snapshotItem(b, quantity))
		c.recomputeTotal()

		if err := s.repo.Create(ctx, c); err != nil {
			log.Error("failed to create cart", zap.Error(err))
			return nil, err
		}
		return c, nil
	}

	if item := c.findItem(bookID); item != nil {
		item.Quantity += quantity
	} else {
		c.Items = append(c.Items, snapshotItem(b, quantity))
	}
	c.recomputeTotal()
	s.touchExpiry(c)

	if err := s.repo.Save(ctx, c); err != nil {
		log.Error("failed to save cart", zap.Error(err))
		return nil, err
	}

	return c, nil
}

func (s *service) IncreaseQuantity(ctx context.Context, owner Owner, bookID string) (*Cart, error) {
	c, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	item := c.findItem(bookID)
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	b, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}

	if item.Quantity >= b.Stock {
		return nil, &StockLimitError{Limit: b.Stock}
	}

	item.Quantity++
	c.recomputeTotal()
	s.touchExpiry(c)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *service) DecreaseQuantity(ctx context.Context, owner Owner, bookID string) (*Cart, error) {
	c, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	item := c.findItem(bookID)
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	if item.Quantity > 1 {
		item.Quantity--
	} else {
		c.removeItem(bookID)
	}
	c.recomputeTotal()
	s.touchExpiry(c)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, owner Owner, bookID string) (*Cart, error) {
	c, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	c.removeItem(bookID)
	c.recomputeTotal()
	s.touchExpiry(c)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Clear drops the cart row entirely, the same end state checkout leaves
// behind. The next mutation lazily recreates it. Clearing an absent cart
// is a no-op.
func (s *service) Clear(ctx context.Context, owner Owner) error {
	return s.repo.Delete(ctx, owner)
}

func (s *service) MergeGuestCart(ctx context.Context, guestID, userID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MergeGuestCart"),
		zap.String("guest_id", guestID),
		zap.String("user_id", userID),
	)

	guestOwner := GuestOwner(guestID)

	guestCart, err := s.repo.GetByOwner(ctx, guestOwner)
	if err != nil {
		return err
	}
	if guestCart == nil || len(guestCart.Items) == 0 {
		return s.repo.Delete(ctx, guestOwner)
	}

	userOwner := UserOwner(userID)
	userCart, err := s.repo.GetByOwner(ctx, userOwner)
	if err != nil {
		return err
	}

	created := false
	if userCart == nil {
		userCart = s.newCart(userOwner)
		created = true
	}

	for _, guestItem := range guestCart.Items {
		b, err := s.bookRepo.GetByID(ctx, guestItem.BookID)
		if err != nil {
			return err
		}
		if b == nil {
			// Book disappeared since the guest added it; drop the line.
			continue
		}

		existing := 0
		if item := userCart.findItem(guestItem.BookID); item != nil {
			existing = item.Quantity
		}

		next := existing + guestItem.Quantity
		if next > b.Stock {
			next = b.Stock
		}
		if next <= 0 {
			continue
		}

		merged := snapshotItem(b, next)
		if item := userCart.findItem(guestItem.BookID); item != nil {
			*item = merged
		} else {
			userCart.Items = append(userCart.Items, merged)
		}
	}

	userCart.recomputeTotal()

	var writeErr error
	if created {
		writeErr = s.repo.Create(ctx, userCart)
	} else {
		writeErr = s.repo.Save(ctx, userCart)
	}

	// The guest cart goes away regardless of how the user-cart write
	// fared. There is no two-phase guarantee here.
	if err := s.repo.Delete(ctx, guestOwner); err != nil {
		log.Error("failed to delete guest cart", zap.Error(err))
		if writeErr == nil {
			writeErr = err
		}
	}

	if writeErr != nil {
		log.Error("guest cart merge failed", zap.Error(writeErr))
		return writeErr
	}

	log.Info("guest cart merged", zap.Int("items", len(userCart.Items)))
	return nil
}

func (s *service) newCart(owner Owner) *Cart {
	c := &Cart{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.touchExpiry(c)
	return c
}

// touchExpiry refreshes the rolling guest TTL. User carts never expire.
func (s *service) touchExpiry(c *Cart) {
	if c.Owner.IsGuest() {
		expires := time.Now().Add(GuestCartTTL)
		c.ExpiresAt = &expires
	}
}

func snapshotItem(b *book.Book, quantity int) Item {
	return Item{
		BookID:   b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Price:    b.SalePrice(),
		Quantity: quantity,
	}
}
