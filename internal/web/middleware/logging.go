package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/eigenface/internal/logging"
)

// RequestLogger logs one entry per request, at error level for 5xx
// responses, warn for 4xx and info otherwise.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = "unknown"
			}

			entry := logger.WithFields(logging.Fields{
				logging.RequestIDKey: requestID,
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             status,
				"latency_ms":         time.Since(start).Milliseconds(),
				"ip":                 r.RemoteAddr,
				"user_agent":         r.UserAgent(),
				"response_size":      ww.BytesWritten(),
			})

			switch {
			case status >= 500:
				entry.Error("Server error")
			case status >= 400:
				entry.Warn("Client error")
			default:
				entry.Info("Success")
			}
		})
	}
}
