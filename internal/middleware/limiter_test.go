package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore-be/internal/utils"

	"github.com/stretchr/testify/assert"
)

func doRequest(handler http.Handler, path, remoteAddr string) int {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec.Code
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimit(ok)

	t.Run("auth endpoints exhaust the strict burst", func(t *testing.T) {
		addr := "10.0.0.1:1234"
		for i := 0; i < burstStrict; i++ {
			assert.Equal(t, http.StatusOK, doRequest(handler, "/auth/login", addr))
		}
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "/auth/login", addr))
	})

	t.Run("general endpoints get the larger burst", func(t *testing.T) {
		addr := "10.0.0.2:1234"
		for i := 0; i < burstGeneral; i++ {
			assert.Equal(t, http.StatusOK, doRequest(handler, "/books", addr))
		}
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "/books", addr))
	})

	t.Run("identities are throttled independently", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doRequest(handler, "/books", "10.0.0.3:1234"))
		assert.Equal(t, http.StatusOK, doRequest(handler, "/books", "10.0.0.4:1234"))
	})

	t.Run("authenticated users behind one address get separate buckets", func(t *testing.T) {
		const sharedAddr = "10.0.0.5:1234"

		do := func(userID string) int {
			r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			r.RemoteAddr = sharedAddr
			r = r.WithContext(utils.SetUserContext(r.Context(), userID, "Jan", utils.RoleUser))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			return rec.Code
		}

		for i := 0; i < burstStrict; i++ {
			assert.Equal(t, http.StatusOK, do("user-a"))
		}
		assert.Equal(t, http.StatusTooManyRequests, do("user-a"))
		assert.Equal(t, http.StatusOK, do("user-b"), "a neighbor's burst must not throttle this user")
	})
}
