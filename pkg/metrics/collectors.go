package metrics

import (
	"context"
	"time"
)

// UpdateSessionCount periodically refreshes the active-sessions gauge.
// count is supplied by the session manager to avoid coupling this package
// to its implementation.
func UpdateSessionCount(ctx context.Context, count func() int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ActiveSessions.Set(float64(count()))
		}
	}
}
