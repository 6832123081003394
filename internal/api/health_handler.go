package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/tasks-api/internal/api/shared"
)

// HealthHandler serves GET /health.
type HealthHandler struct {
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler creates a HealthHandler measuring uptime from startedAt.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, now: time.Now}
}

// Health reports liveness and process uptime.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	uptime := now.Sub(h.startedAt)
	if uptime < 0 {
		uptime = 0
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC(),
		Uptime: UptimeResponse{
			Seconds:   int64(uptime / time.Second),
			Formatted: FormatUptime(uptime),
		},
	})
}

// FormatUptime renders d as "1d 2h 3m 4s". Leading zero units are omitted;
// seconds are always present.
func FormatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))
	return strings.Join(parts, " ")
}
