package httpapi

import (
	"context"
	"net/http"

	"bookstore-be/internal/cart"
)

type cartItemDTO struct {
	BookID   string `json:"bookId"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type cartDTO struct {
	Items   []cartItemDTO `json:"items"`
	Total   string        `json:"total"`
	IsGuest bool          `json:"isGuest"`
}

func toCartDTO(c *cart.Cart, owner cart.Owner) cartDTO {
	dto := cartDTO{
		Items:   []cartItemDTO{},
		Total:   "0",
		IsGuest: owner.IsGuest(),
	}
	if c == nil {
		return dto
	}

	for _, item := range c.Items {
		dto.Items = append(dto.Items, cartItemDTO{
			BookID:   item.BookID,
			Title:    item.Title,
			Author:   item.Author,
			Price:    item.Price.String(),
			Quantity: item.Quantity,
		})
	}
	dto.Total = c.Total.String()
	return dto
}

type cartItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	owner := h.resolveOwner(w, r)

	c, err := h.Carts.Get(r.Context(), owner)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartDTO(c, owner))
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil || req.BookID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "bookId and quantity are required"})
		return
	}

	owner := h.resolveOwner(w, r)

	c, err := h.Carts.AddItem(r.Context(), owner, req.BookID, req.Quantity)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartDTO(c, owner))
}

func (h *Handler) increaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjustCart(w, r, h.Carts.IncreaseQuantity)
}

func (h *Handler) decreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjustCart(w, r, h.Carts.DecreaseQuantity)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.adjustCart(w, r, h.Carts.RemoveItem)
}

func (h *Handler) adjustCart(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, owner cart.Owner, bookID string) (*cart.Cart, error),
) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil || req.BookID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "bookId is required"})
		return
	}

	owner := h.resolveOwner(w, r)

	c, err := op(r.Context(), owner, req.BookID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartDTO(c, owner))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	owner := h.resolveOwner(w, r)

	if err := h.Carts.Clear(r.Context(), owner); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartDTO(nil, owner))
}
