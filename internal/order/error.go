package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrCartEmpty      = errors.New("cart is empty")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotCancellable = errors.New("order can no longer be cancelled")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// ValidationError names the first checkout field that failed validation.
// Nothing has been mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StockConflictError means the conditional decrement for one item lost
// the race at confirmation time. Decrements already applied to earlier
// items in the same order are not rolled back.
type StockConflictError struct {
	BookID    string
	Requested int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s (requested %d)", e.BookID, e.Requested)
}
