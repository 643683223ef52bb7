package httpapi

import (
	"net/http"
	"time"

	"bookstore-be/internal/book"
)

type bookDTO struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category"`
	Language         string    `json:"language"`
	Price            string    `json:"price"`
	DiscountedPrice  *string   `json:"discountedPrice,omitempty"`
	Stock            int       `json:"stock"`
	RatingCount      int       `json:"ratingCount"`
	AggregatedRating *float64  `json:"aggregatedRating"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toBookDTO(b *book.Book) bookDTO {
	dto := bookDTO{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Description:      b.Description,
		Category:         b.Category,
		Language:         b.Language,
		Price:            b.Price.String(),
		Stock:            b.Stock,
		RatingCount:      b.RatingCount,
		AggregatedRating: b.AggregatedRating,
		CreatedAt:        b.CreatedAt,
	}
	if b.DiscountedPrice != nil {
		s := b.DiscountedPrice.String()
		dto.DiscountedPrice = &s
	}
	return dto
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	books, err := h.Books.List(r.Context(), book.ListFilter{
		Category: q.Get("category"),
		Language: q.Get("language"),
		Search:   q.Get("search"),
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	dtos := make([]bookDTO, 0, len(books))
	for _, b := range books {
		dtos = append(dtos, toBookDTO(b))
	}

	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	b, err := h.Books.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookDTO(b))
}
