package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// DefaultIdentityHeader names the header carrying the caller's user ID.
const DefaultIdentityHeader = "X-User-Id"

// AuthMiddleware resolves the caller from a trusted identity header.
// There are no tokens or credentials: any user ID known to the directory
// is accepted, which makes this suitable for development only.
type AuthMiddleware struct {
	directory directory.UserDirectory
	header    string
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty header means
// DefaultIdentityHeader.
func NewAuthMiddleware(dir directory.UserDirectory, header string) *AuthMiddleware {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return &AuthMiddleware{
		directory: dir,
		header:    header,
	}
}

// Authenticate checks the identity header against the user directory and
// adds the user ID, and a logger carrying it, to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(m.header))
		if userID == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+m.header+" header")
			return
		}

		user, err := m.directory.Resolve(r.Context(), userID)
		if err != nil {
			if errors.Is(err, directory.ErrUserNotFound) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid user", err,
					shared.WithElevatedLogLevel())
				return
			}
			logger.FromContextOrDefault(r.Context(), nil).Error("failed to resolve user",
				slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}

		recordUserID(r.Context(), user.ID)
		ctx := shared.WithUserID(r.Context(), user.ID)
		log := logger.FromContextOrDefault(ctx, nil).With(slog.String("user_id", user.ID))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
