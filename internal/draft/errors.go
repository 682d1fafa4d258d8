package draft

import "errors"

var (
	ErrNotFound       = errors.New("draft not found")
	ErrUnknownKind    = errors.New("unknown draft kind")
	ErrUnknownOp      = errors.New("unknown draft operation")
	ErrKindMismatch   = errors.New("operation does not apply to this draft kind")
	ErrInvalidPayload = errors.New("invalid draft payload")
)
