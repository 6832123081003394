package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// requestState collects values resolved further down the chain for the
// completion log line.
type requestState struct {
	userID string
}

type requestStateKey struct{}

// recordUserID notes the authenticated user on the request being logged, if any.
func recordUserID(ctx context.Context, userID string) {
	if st, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		st.userID = userID
	}
}

// RequestLogger logs the start and completion of every request with the
// request-scoped logger. It must run after the trace middleware.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.FromContextOrDefault(r.Context(), nil)

		log.Info("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.RequestURI()),
			slog.String("user_agent", r.UserAgent()),
			slog.String("remote_addr", r.RemoteAddr))

		st := &requestState{}
		r = r.WithContext(context.WithValue(r.Context(), requestStateKey{}, st))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.RequestURI()),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if st.userID != "" {
			attrs = append(attrs, slog.String("user_id", st.userID))
		}
		log.Info("request completed", attrs...)
	})
}
