package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ryz3006/alignzo/pkg/logger"
)

// TraceIDHeader carries the request trace ID in and out of the service.
const TraceIDHeader = "X-Trace-ID"

// RequestID tags every request with a trace ID: the caller's if one was
// sent, a fresh UUID otherwise. The ID rides the context logger so every
// log line of the request carries it, and is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
