package httpapi

import (
	"net/http"
	"time"

	"bookstore-be/internal/order"
)

type checkoutRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Delivery      string `json:"delivery"`
	PaymentMethod string `json:"paymentMethod"`
	CardNumber    string `json:"cardNumber"`
	CardExpiry    string `json:"cardExpiry"`
	CardCVV       string `json:"cardCvv"`
	BlikCode      string `json:"blikCode"`
}

type orderItemDTO struct {
	BookID   string `json:"bookId"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type orderDTO struct {
	ID             string         `json:"id"`
	Items          []orderItemDTO `json:"items"`
	Subtotal       string         `json:"subtotal"`
	DeliveryCost   string         `json:"deliveryCost"`
	Total          string         `json:"total"`
	Delivery       string         `json:"delivery"`
	PaymentMethod  string         `json:"paymentMethod"`
	LastFourDigits string         `json:"lastFourDigits,omitempty"`
	Status         string         `json:"status"`
	Date           time.Time      `json:"date"`
	CancelDeadline time.Time      `json:"cancelDeadline"`
}

func toOrderDTO(o *order.Order) orderDTO {
	dto := orderDTO{
		ID:             o.ID,
		Items:          []orderItemDTO{},
		Subtotal:       o.Subtotal.String(),
		DeliveryCost:   o.DeliveryCost.String(),
		Total:          o.Total.String(),
		Delivery:       o.Delivery,
		PaymentMethod:  o.PaymentMethod,
		Status:         string(o.Status),
		Date:           o.Date,
		CancelDeadline: o.CancelDeadline,
	}
	if o.PaymentDetails != nil {
		dto.LastFourDigits = o.PaymentDetails.LastFourDigits
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, orderItemDTO{
			BookID:   item.BookID,
			Title:    item.Title,
			Author:   item.Author,
			Price:    item.Price.String(),
			Quantity: item.Quantity,
		})
	}
	return dto
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	owner := h.resolveOwner(w, r)

	o, err := h.Orders.Confirm(r.Context(), owner, order.CheckoutForm{
		Name:          req.Name,
		Phone:         req.Phone,
		Street:        req.Street,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Delivery:      req.Delivery,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		CardExpiry:    req.CardExpiry,
		CardCVV:       req.CardCVV,
		BlikCode:      req.BlikCode,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDTO(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	owner := h.resolveOwner(w, r)

	orders, err := h.Orders.ListByOwner(r.Context(), owner)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	dtos := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}

	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor := h.resolveActor(w, r)

	o, err := h.Orders.Get(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor := h.resolveActor(w, r)

	o, err := h.Orders.Cancel(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	actor := h.resolveActor(w, r)

	if err := h.Orders.UpdateStatus(r.Context(), r.PathValue("id"), order.Status(req.Status), actor); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	actor := h.resolveActor(w, r)

	if err := h.Orders.Delete(r.Context(), r.PathValue("id"), actor); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
