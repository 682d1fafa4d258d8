package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is returned when validation fails but no field errors are attached.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownRule is returned when a rule string references a rule that does not exist.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrInvalidParameter is returned when a rule parameter is missing or cannot be parsed.
	ErrInvalidParameter = errors.New("invalid rule parameter")
)

// RuleError describes a configuration problem in a single rule token.
type RuleError struct {
	Field string
	Token string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("field %q, rule %q: %v", e.Field, e.Token, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }
