package review

import "time"

type Review struct {
	ID        string
	BookID    string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Actor is the user performing a review operation. Admins may edit or
// delete anyone's review.
type Actor struct {
	UserID  string
	Name    string
	IsAdmin bool
}

// ReviewsPageSize is the fragment size the storefront renders.
const ReviewsPageSize = 5
