package httpapi

import (
	"net/http"

	"bookstore-be/internal/logger"

	"go.uber.org/zap"
)

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "email and password are required"})
		return
	}

	token, u, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	setAccessTokenCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, Name: u.Name, Email: u.Email, Role: string(u.Role)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "email and password are required"})
		return
	}

	token, u, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	// A guest who logs in keeps their basket: fold the guest cart into
	// the user's cart, then retire the guest cookie.
	if c, cerr := r.Cookie(guestCookieName); cerr == nil && c.Value != "" {
		if merr := h.Carts.MergeGuestCart(r.Context(), c.Value, u.ID); merr != nil {
			logger.FromCtx(r.Context()).Error("guest cart merge failed",
				zap.String("guest_id", c.Value),
				zap.String("user_id", u.ID),
				zap.Error(merr),
			)
		}
		http.SetCookie(w, &http.Cookie{
			Name:   guestCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}

	setAccessTokenCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{Token: token, Name: u.Name, Email: u.Email, Role: string(u.Role)})
}

func setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   24 * 60 * 60,
	})
}
