package httpapi

import (
	"net/http"
	"time"

	"bookstore-be/internal/cart"
	"bookstore-be/internal/order"
	"bookstore-be/internal/utils"

	"github.com/google/uuid"
)

const guestCookieName = "guest_id"

// resolveOwner returns the cart owner for this request: the authenticated
// user when a token was verified, otherwise a guest id persisted in a
// cookie. The guest id is minted once and reused on later requests.
func (h *Handler) resolveOwner(w http.ResponseWriter, r *http.Request) cart.Owner {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return cart.UserOwner(userID)
	}

	if c, err := r.Cookie(guestCookieName); err == nil && c.Value != "" {
		return cart.GuestOwner(c.Value)
	}

	guestID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    guestID,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(cart.GuestCartTTL / time.Second),
	})

	return cart.GuestOwner(guestID)
}

func (h *Handler) resolveActor(w http.ResponseWriter, r *http.Request) order.Actor {
	return order.Actor{
		Owner:   h.resolveOwner(w, r),
		IsAdmin: utils.IsAdmin(r.Context()),
	}
}
