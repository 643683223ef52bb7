package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"bookstore-be/internal/review"
	"bookstore-be/internal/utils"
)

type reviewDTO struct {
	ID        string     `json:"id"`
	BookID    string     `json:"bookId"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func toReviewDTO(rev *review.Review) reviewDTO {
	return reviewDTO{
		ID:        rev.ID,
		BookID:    rev.BookID,
		UserID:    rev.UserID,
		UserName:  rev.UserName,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt,
		UpdatedAt: rev.UpdatedAt,
	}
}

// reviewsPage is the payload every review write returns: the recomputed
// rating summary plus the first page of reviews, ready for the fragment
// the storefront swaps in.
type reviewsPage struct {
	RatingCount      int         `json:"ratingCount"`
	AggregatedRating *float64    `json:"aggregatedRating"`
	Reviews          []reviewDTO `json:"reviews"`
}

func (h *Handler) reviewsPageFor(r *http.Request, bookID string, page int) (*reviewsPage, error) {
	b, err := h.Books.Get(r.Context(), bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := h.Reviews.ListForBook(r.Context(), bookID, page)
	if err != nil {
		return nil, err
	}

	out := &reviewsPage{
		RatingCount:      b.RatingCount,
		AggregatedRating: b.AggregatedRating,
		Reviews:          []reviewDTO{},
	}
	for _, rev := range reviews {
		out.Reviews = append(out.Reviews, toReviewDTO(rev))
	}
	return out, nil
}

func (h *Handler) requireReviewActor(w http.ResponseWriter, r *http.Request) (review.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusForbidden, errorBody{Message: "login required"})
		return review.Actor{}, false
	}
	return review.Actor{
		UserID:  userID,
		Name:    utils.GetUserNameFromContext(r.Context()),
		IsAdmin: utils.IsAdmin(r.Context()),
	}, true
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("reviewPage"))

	payload, err := h.reviewsPageFor(r, r.PathValue("id"), page)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireReviewActor(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	bookID := r.PathValue("id")
	if _, err := h.Reviews.Create(r.Context(), actor, bookID, req.Rating, req.Comment); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	payload, err := h.reviewsPageFor(r, bookID, 1)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireReviewActor(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	rev, err := h.Reviews.Update(r.Context(), actor, r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	payload, err := h.reviewsPageFor(r, rev.BookID, 1)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireReviewActor(w, r)
	if !ok {
		return
	}

	reviewID := r.PathValue("id")

	if err := h.Reviews.Delete(r.Context(), actor, reviewID); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	bookID := r.URL.Query().Get("bookId")
	if bookID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	payload, err := h.reviewsPageFor(r, bookID, 1)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
