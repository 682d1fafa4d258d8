package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind identifies the rule that failed. Values are stable and used as
// translation keys by the presentation layer.
type ErrorKind string

const (
	KindRequired      ErrorKind = "field_is_required"
	KindRequiredIf    ErrorKind = "field_is_required_when_field2_is_parameter"
	KindString        ErrorKind = "field_must_be_a_string"
	KindNumber        ErrorKind = "field_must_be_a_number"
	KindArray         ErrorKind = "field_must_be_an_array"
	KindMinValue      ErrorKind = "field_must_be_at_least_parameter"
	KindMaxValue      ErrorKind = "field_must_not_be_greater_than_parameter"
	KindMinLength     ErrorKind = "field_must_be_at_least_parameter_characters_long"
	KindMaxLength     ErrorKind = "field_must_not_exceed_parameter_characters"
	KindConfiguration ErrorKind = "configuration_error"
)

// Values is the field value bag submitted for validation.
type Values map[string]any

// Get returns the value stored for field. Missing fields read as the empty string.
func (v Values) Get(field string) any {
	if val, ok := v[field]; ok {
		return val
	}
	return ""
}

// Rules maps a field name to its pipe-delimited rule string.
type Rules map[string]string

// Properties are the interpolation values of an error descriptor.
type Properties struct {
	Field     string `json:"field"`
	Parameter any    `json:"parameter,omitempty"`
	Field2    string `json:"field2,omitempty"`
}

// ErrorDescriptor describes a single failed rule with translation support.
type ErrorDescriptor struct {
	Kind       ErrorKind  `json:"kind"`
	Properties Properties `json:"properties"`
}

// Result is the outcome of validating a value bag.
// Failed is true exactly when Errors is non-empty.
type Result struct {
	Failed bool                       `json:"failed"`
	Errors map[string]ErrorDescriptor `json:"errors"`
}

func newResult() Result {
	return Result{Errors: make(map[string]ErrorDescriptor)}
}

func (r *Result) add(field string, desc ErrorDescriptor) {
	r.Errors[field] = desc
	r.Failed = true
}

// Merge copies the errors of other into r. Errors already present in r win.
func (r Result) Merge(other Result) Result {
	out := newResult()
	for field, desc := range other.Errors {
		out.add(field, desc)
	}
	for field, desc := range r.Errors {
		out.add(field, desc)
	}
	return out
}

// Err returns nil for a clean result, otherwise the errors as ValidationErrors
// ordered by field name.
func (r Result) Err() error {
	if !r.Failed {
		return nil
	}
	fields := make([]string, 0, len(r.Errors))
	for field := range r.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errs := make(ValidationErrors, 0, len(fields))
	for _, field := range fields {
		errs = append(errs, r.Errors[field])
	}
	return errs
}

// ValidationErrors represents a collection of error descriptors.
type ValidationErrors []ErrorDescriptor

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrValidationFailed.Error()
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Properties.Field, err.Kind))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve ValidationErrors) Has(field string) bool {
	_, ok := ve.Get(field)
	return ok
}

func (ve ValidationErrors) Get(field string) (ErrorDescriptor, bool) {
	for _, err := range ve {
		if err.Properties.Field == field {
			return err, true
		}
	}
	return ErrorDescriptor{}, false
}

func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		fields = append(fields, err.Properties.Field)
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}

// Validate checks values against rules. Configuration problems are reported for
// the affected field with KindConfiguration; other fields are still evaluated.
func Validate(values Values, rules Rules) Result {
	res := newResult()
	for _, field := range sortedFields(rules) {
		compiled, err := compileField(field, rules[field])
		if err != nil {
			res.add(field, configurationError(field, err))
			continue
		}
		if desc := compiled.check(values); desc != nil {
			res.add(field, *desc)
		}
	}
	return res
}

func configurationError(field string, err error) ErrorDescriptor {
	desc := ErrorDescriptor{
		Kind:       KindConfiguration,
		Properties: Properties{Field: field},
	}
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		desc.Properties.Parameter = ruleErr.Token
	}
	return desc
}

func sortedFields(rules Rules) []string {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
