package middleware

import (
	"log"
	"net/http"
	"time"

	"relaybackend/core"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLoggingMiddleware tags every request with a generated id, echoes
// it back in the X-Request-ID header and logs the outcome.
func RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := core.NewID("req")
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		log.Printf("📋 [%s] %s %s completed with status %d in %s",
			requestID, r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}
