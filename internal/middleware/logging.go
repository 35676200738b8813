package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/rpattn/defectwatch/internal/requestid"
)

// responseWriter captures HTTP status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status and duration per request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Process HTTP request
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		id, _ := requestid.FromContext(r.Context())
		log.Printf("[HTTP] %s %s %d %s from %s rid=%s", r.Method, r.URL.Path, rw.statusCode, duration, r.RemoteAddr, id)
	})
}
