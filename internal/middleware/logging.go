package middleware

import (
	"net/http"
	"time"

	"bookstore-be/internal/logger"
	"bookstore-be/internal/metrics"
	"bookstore-be/internal/utils"

	"go.uber.org/zap"
)

// responseRecorder captures the status code written by the handler.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

var requestCount metrics.Counter

// RequestCount reports how many requests have been served since startup.
func RequestCount() uint64 {
	return requestCount.Load()
}

// Logging emits one structured entry per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		requestCount.Inc()
		userID, _ := utils.GetUserIDFromContext(r.Context())

		logger.FromCtx(r.Context()).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", r.RemoteAddr),
			zap.String("user_id", userID),
		)
	})
}
