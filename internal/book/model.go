package book

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID               string
	Title            string
	Author           string
	Description      string
	Category         string
	Language         string
	Price            decimal.Decimal
	DiscountedPrice  *decimal.Decimal
	Stock            int
	RatingTotal      int
	RatingCount      int
	AggregatedRating *float64
	CreatedAt        time.Time
}

// SalePrice is the effective unit price: the discounted price when one is
// set, the regular price otherwise.
func (b *Book) SalePrice() decimal.Decimal {
	if b.DiscountedPrice != nil {
		return *b.DiscountedPrice
	}
	return b.Price
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Category string
	Language string
	Search   string
}
