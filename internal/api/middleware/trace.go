// Package middleware provides the HTTP middleware used by the task API:
// trace IDs, request logging, identity resolution and Prometheus metrics.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// NewTraceMiddleware assigns a trace ID to every request. The ID is echoed in
// the X-Trace-Id response header and attached to a request-scoped logger that
// downstream handlers retrieve with logger.FromContext.
// This middleware should be applied early in the middleware chain.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := shared.TraceIDFromHeader(r.Header.Get(shared.TraceIDHeader))
			w.Header().Set(shared.TraceIDHeader, traceID)

			ctx := shared.WithTraceID(r.Context(), traceID)
			ctx = logger.WithLogger(ctx, base.With(slog.String("trace_id", traceID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
