package ratelimiter

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig     = errors.New("invalid rate limit configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrStoreUnavailable  = errors.New("rate limit store unavailable")
)

func newConfigError(field string, value any) error {
	return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, field, value)
}
