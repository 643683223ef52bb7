package review

import "errors"

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEmptyComment   = errors.New("comment must not be empty")
)
