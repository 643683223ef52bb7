package book

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")

	// ErrStockConflict means the conditional decrement found fewer units
	// than requested. The caller decides what to do about earlier
	// decrements in the same batch.
	ErrStockConflict = errors.New("insufficient stock")
)
