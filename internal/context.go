package internal

import (
	"context"
	"time"
)

// DefaultOperationTimeout bounds storage calls that carry no request
// deadline of their own, such as background writes and health probes.
const DefaultOperationTimeout = 5 * time.Second

// WithTimeout returns a derived context with the given timeout, falling back
// to DefaultOperationTimeout when duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = DefaultOperationTimeout
	}
	return context.WithTimeout(ctx, duration)
}
