package testutils

import (
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/store"
)

// StepClock returns a store.Clock that starts at start and advances by step on
// every call, so rows created in sequence get strictly increasing timestamps.
func StepClock(start time.Time, step time.Duration) store.Clock {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

// FixedTime is a convenient base instant for tests.
var FixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
