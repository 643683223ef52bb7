package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerKind distinguishes authenticated users from session guests.
type OwnerKind string

const (
	OwnerUser  OwnerKind = "user"
	OwnerGuest OwnerKind = "guest"
)

// Owner is the identity a cart belongs to: exactly one user id or one
// guest id minted into the caller's session.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func UserOwner(id string) Owner {
	return Owner{Kind: OwnerUser, ID: id}
}

func GuestOwner(id string) Owner {
	return Owner{Kind: OwnerGuest, ID: id}
}

func (o Owner) IsGuest() bool {
	return o.Kind == OwnerGuest
}

// GuestCartTTL is the rolling inactivity window after which a guest cart
// is reclaimed by the expiry sweeper.
const GuestCartTTL = 7 * 24 * time.Hour

// Item is a cart line. Price, title and author are snapshots taken when
// the line was added; later catalog changes do not touch them.
type Item struct {
	BookID   string
	Title    string
	Author   string
	Price    decimal.Decimal
	Quantity int
}

type Cart struct {
	ID        string
	Owner     Owner
	Items     []Item
	Total     decimal.Decimal
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// recomputeTotal rebuilds Total from the line items. Every mutation goes
// through this so the total can never drift from the items.
func (c *Cart) recomputeTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.Total = total
}

func (c *Cart) removeItem(bookID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

func (c *Cart) findItem(bookID string) *Item {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			return &c.Items[i]
		}
	}
	return nil
}
