package cart

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
)

// StockLimitError rejects a cart mutation that would push the requested
// quantity past the book's current stock. The cart is left untouched.
type StockLimitError struct {
	Limit int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("cannot add more than %d units", e.Limit)
}
