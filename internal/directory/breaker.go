package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker around a remote directory.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive backend failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// LookupTimeout bounds each Resolve call; zero means no extra deadline.
	LookupTimeout time.Duration
}

// BreakerDirectory protects a UserDirectory with a circuit breaker.
// Unknown users and canceled callers never count as failures.
type BreakerDirectory struct {
	next    UserDirectory
	breaker *gobreaker.CircuitBreaker[*domain.User]
	timeout time.Duration
	logger  *slog.Logger
}

// NewBreakerDirectory wraps next with a circuit breaker.
func NewBreakerDirectory(next UserDirectory, cfg BreakerConfig, logger *slog.Logger) *BreakerDirectory {
	if next == nil {
		panic("next directory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	log := logger.With(slog.String("component", "directory_breaker"))

	settings := gobreaker.Settings{
		Name:        "user-directory",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller that gives up says nothing about backend health; a lookup
		// timeout does.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUserNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &BreakerDirectory{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[*domain.User](settings),
		timeout: cfg.LookupTimeout,
		logger:  log,
	}
}

var _ UserDirectory = (*BreakerDirectory)(nil)

// Resolve implements UserDirectory.
func (d *BreakerDirectory) Resolve(ctx context.Context, id string) (*domain.User, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	user, err := d.breaker.Execute(func() (*domain.User, error) {
		return d.next.Resolve(ctx, id)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return user, err
}

// State reports the breaker state, for health output and tests.
func (d *BreakerDirectory) State() gobreaker.State {
	return d.breaker.State()
}
