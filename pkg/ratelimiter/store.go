package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state. ConsumeTokens takes n tokens when the bucket holds
// enough of them; otherwise it leaves the bucket untouched and reports the
// shortfall as a negative remaining count. n == 0 only refreshes the bucket.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
