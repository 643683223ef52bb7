package order

import (
	"time"

	"bookstore-be/internal/cart"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsValid reports whether s is one of the five named statuses. Admin
// updates may move between any two of them; there is no transition graph.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

const (
	PaymentCard = "card"
	PaymentBlik = "blik"
	PaymentCash = "cash"
)

// CancelWindow is the advisory cancellation window rendered to the
// customer. It is not enforced server-side; cancellation stays available
// while the order is pending.
const CancelWindow = 30 * time.Second

type Address struct {
	Street     string
	City       string
	PostalCode string
}

type CustomerInfo struct {
	Name    string
	Phone   string
	Address Address
}

// PaymentDetails is the redacted payment record. CVV and BLIK codes are
// validated on the way in and never persisted.
type PaymentDetails struct {
	LastFourDigits string
	ExpiryDate     string
	BlikUsed       bool
}

// Item is an immutable price-and-quantity snapshot taken from the cart at
// confirmation time.
type Item struct {
	BookID   string
	Title    string
	Author   string
	Price    decimal.Decimal
	Quantity int
}

type Order struct {
	ID             string
	Owner          cart.Owner
	Items          []Item
	Subtotal       decimal.Decimal
	DeliveryCost   decimal.Decimal
	Total          decimal.Decimal
	CustomerInfo   CustomerInfo
	Delivery       string
	PaymentMethod  string
	PaymentDetails *PaymentDetails
	Status         Status
	Date           time.Time
	CancelDeadline time.Time
	UpdatedAt      time.Time
}

// CheckoutForm carries the raw delivery and payment input. CardCVV and
// BlikCode are consumed by validation only.
type CheckoutForm struct {
	Name          string
	Phone         string
	Street        string
	City          string
	PostalCode    string
	Delivery      string
	PaymentMethod string
	CardNumber    string
	CardExpiry    string
	CardCVV       string
	BlikCode      string
}

var deliveryCosts = map[string]int64{
	"courier": 15,
	"inpost":  12,
	"post":    10,
	"pickup":  0,
}

// DeliveryCostFor looks up the flat delivery fee. Unknown methods cost
// nothing, matching the storefront's fallback.
func DeliveryCostFor(method string) decimal.Decimal {
	return decimal.NewFromInt(deliveryCosts[method])
}
