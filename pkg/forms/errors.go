package forms

import "errors"

var (
	ErrFormNotFound      = errors.New("form not found")
	ErrFailedToParseYAML = errors.New("failed to parse forms YAML")
	ErrNoForms           = errors.New("no forms defined")
	ErrInvalidForm       = errors.New("invalid form definition")
	ErrLoadingCancelled  = errors.New("loading forms cancelled")
)
