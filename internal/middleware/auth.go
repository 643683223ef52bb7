package middleware

import (
	"net/http"

	"bookstore-be/internal/auth"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/utils"

	"github.com/google/uuid"
)

// Auth verifies the access token when one is present and stores the
// user's identity in the request context. Requests without a valid token
// pass through as guests; handlers decide what requires authentication.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequestID(r.Context(), uuid.NewString())

		if token := auth.ExtractAccessToken(r); token != "" {
			if claims, err := auth.ParseJWT(token); err == nil {
				ctx = utils.SetUserContext(ctx, claims.UserID, claims.Name, claims.Role)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
