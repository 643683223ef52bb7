package httpapi

import (
	"net/http"

	"bookstore-be/internal/book"
	"bookstore-be/internal/cart"
	"bookstore-be/internal/middleware"
	"bookstore-be/internal/order"
	"bookstore-be/internal/review"
	"bookstore-be/internal/user"
)

// Handler is the thin JSON surface over the core services. Rendering,
// sessions and static assets live elsewhere; this layer only resolves the
// caller's identity and maps service errors onto status codes.
type Handler struct {
	Books   book.Service
	Carts   cart.Service
	Orders  order.Service
	Reviews review.Service
	Users   user.Service
}

func NewHandler(books book.Service, carts cart.Service, orders order.Service, reviews review.Service, users user.Service) *Handler {
	return &Handler{
		Books:   books,
		Carts:   carts,
		Orders:  orders,
		Reviews: reviews,
		Users:   users,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)

	mux.HandleFunc("GET /books", h.listBooks)
	mux.HandleFunc("GET /books/{id}", h.getBook)

	mux.HandleFunc("GET /cart", h.getCart)
	mux.HandleFunc("POST /cart/items", h.addToCart)
	mux.HandleFunc("POST /cart/items/increase", h.increaseQuantity)
	mux.HandleFunc("POST /cart/items/decrease", h.decreaseQuantity)
	mux.HandleFunc("POST /cart/items/remove", h.removeFromCart)
	mux.HandleFunc("POST /cart/clear", h.clearCart)

	mux.HandleFunc("POST /orders", h.confirmOrder)
	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("POST /orders/{id}/cancel", h.cancelOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", h.updateOrderStatus)
	mux.HandleFunc("DELETE /orders/{id}", h.deleteOrder)

	mux.HandleFunc("GET /books/{id}/reviews", h.listReviews)
	mux.HandleFunc("POST /books/{id}/reviews", h.createReview)
	mux.HandleFunc("PUT /reviews/{id}", h.updateReview)
	mux.HandleFunc("DELETE /reviews/{id}", h.deleteReview)

	mux.HandleFunc("GET /status", h.status)

	// Auth runs first so the limiter can key authenticated traffic by user
	// and the access log sees the request id and user id.
	return middleware.Auth(middleware.RateLimit(middleware.Logging(mux)))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	confirmed, conflicts := h.Orders.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"requests":        middleware.RequestCount(),
		"ordersConfirmed": confirmed,
		"stockConflicts":  conflicts,
	})
}
