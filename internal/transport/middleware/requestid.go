package middleware

import (
	"context"
	"net/http"

	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// RequestID tags every request with a trace ID, honoring one passed in
// by the platform's proxy. The ID rides the context logger and comes
// back to the caller in the X-Trace-ID header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		ctx = context.WithValue(ctx, traceIDKey{}, traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the request's trace ID, or "" outside a request.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
