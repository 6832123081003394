package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/validation"
)

// MapErrorToStatusCode maps an error to its HTTP status code using the
// domain error kind. Unclassified errors are internal server errors.
func MapErrorToStatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindMissingIdentity:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message shown to the client for err.
// Tagged errors carry a client-safe message; anything else is redacted.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" && de.Kind != domain.KindInternal {
		return de.Message
	}

	if errors.Is(err, store.ErrNotFound) {
		return "Task not found"
	}

	msg := redact.Error(err)
	if msg == "" {
		return "Internal server error"
	}
	return msg
}

// stackTracer is implemented by errors that record where they were raised.
type stackTracer interface {
	StackTrace() string
}

// HandleAPIError writes the response for an error returned by the service layer.
// Validation errors carrying issues are rendered with the issues list.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		shared.RespondWithValidationError(w, r, verr.Issues)
		return
	}

	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		attrs := []any{
			slog.String("error", redact.Error(err)),
			slog.Int("status", status),
		}
		var st stackTracer
		if errors.As(err, &st) && st.StackTrace() != "" {
			attrs = append(attrs, slog.String("stack", st.StackTrace()))
		}
		logger.FromContextOrDefault(r.Context(), nil).Error("unhandled error", attrs...)
	}

	opts := []shared.ResponseOption{}
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
