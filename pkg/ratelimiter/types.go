package ratelimiter

import (
	"fmt"
	"time"
)

// Result is the outcome of one rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was denied
	ResetAt   time.Time // next refill
}

// Allowed reports whether the request may proceed.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long a denied caller should wait, measured from now.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Config defines the token bucket. The env tags let services load it with
// pkg/config.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"60"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1s"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return newConfigError("capacity", c.Capacity)
	case c.RefillRate <= 0:
		return newConfigError("refill rate", c.RefillRate)
	case c.RefillInterval < time.Millisecond:
		return fmt.Errorf("%w: refill interval must be at least 1ms, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// refill returns the token count after the intervals elapsed since last,
// and the new refill mark.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	elapsed := now.Sub(last)
	if elapsed < c.RefillInterval {
		return tokens, last
	}
	// Cap intervals to prevent integer overflow in high-capacity/low-rate scenarios
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := min(int64(elapsed/c.RefillInterval), maxIntervals)
	tokens = min(tokens+int(intervals)*c.RefillRate, c.Capacity)
	return tokens, last.Add(time.Duration(intervals) * c.RefillInterval)
}
