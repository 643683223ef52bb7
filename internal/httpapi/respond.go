package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bookstore-be/internal/book"
	"bookstore-be/internal/cart"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/order"
	"bookstore-be/internal/review"
	"bookstore-be/internal/user"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	BookID  string `json:"bookId,omitempty"`
}

// writeError maps the error taxonomy onto status codes: validation and
// malformed input to 400, missing resources to 404, forbidden actions to
// 403, confirmation-time stock conflicts to 409. Everything else is an
// unexpected 500 and gets logged.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validationErr *order.ValidationError
		stockLimitErr *cart.StockLimitError
		conflictErr   *order.StockConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: validationErr.Message, Field: validationErr.Field})
	case errors.As(err, &stockLimitErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: stockLimitErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorBody{Message: conflictErr.Error(), BookID: conflictErr.BookID})

	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrEmptyComment),
		errors.Is(err, user.ErrEmailExists):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: err.Error()})

	case errors.Is(err, book.ErrBookNotFound),
		errors.Is(err, cart.ErrBookNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, review.ErrBookNotFound),
		errors.Is(err, review.ErrReviewNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Message: err.Error()})

	case errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, review.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorBody{Message: err.Error()})

	case errors.Is(err, user.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: err.Error()})

	default:
		logger.FromCtx(ctx).Error("unexpected error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "internal server error"})
	}
}
