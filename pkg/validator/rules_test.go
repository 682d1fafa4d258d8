package validator_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/discountkit/pkg/validator"
)

func failedKind(values validator.Values, field, rules string) validator.ErrorKind {
	res := validator.Validate(values, validator.Rules{field: rules})
	return res.Errors[field].Kind
}

func TestRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		fail  bool
	}{
		{"empty string", "", true},
		{"nil", nil, true},
		{"empty slice", []any{}, true},
		{"nil slice", []string(nil), true},
		{"zero", 0, true},
		{"false", false, true},
		{"zero decimal", decimal.Zero, true},
		{"text", "a", false},
		{"whitespace", " ", false},
		{"number", 3.5, false},
		{"true", true, false},
		{"non-empty slice", []any{"x"}, false},
		{"pointer to text", ptr("a"), false},
		{"nil pointer", (*string)(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind := failedKind(validator.Values{"f": tt.value}, "f", "required")
			if tt.fail {
				assert.Equal(t, validator.KindRequired, kind)
			} else {
				assert.Empty(t, kind)
			}
		})
	}

	t.Run("absent field fails", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, validator.KindRequired, failedKind(validator.Values{}, "f", "required"))
	})
}

func TestRequiredIf(t *testing.T) {
	t.Parallel()

	rule := "requiredIf:status,SCHEDULED"

	t.Run("fails when other matches and field empty", func(t *testing.T) {
		t.Parallel()
		res := validator.Validate(
			validator.Values{"status": "SCHEDULED", "start_date": ""},
			validator.Rules{"start_date": rule},
		)
		assert.Equal(t, validator.ErrorDescriptor{
			Kind: validator.KindRequiredIf,
			Properties: validator.Properties{
				Field:     "start_date",
				Parameter: "SCHEDULED",
				Field2:    "status",
			},
		}, res.Errors["start_date"])
	})

	t.Run("passes when field present", func(t *testing.T) {
		t.Parallel()
		kind := failedKind(validator.Values{"status": "SCHEDULED", "start_date": "2026-11-01"}, "start_date", rule)
		assert.Empty(t, kind)
	})

	for _, status := range []any{"ACTIVE", "scheduled", "", nil, 1} {
		t.Run("passes for other status", func(t *testing.T) {
			t.Parallel()
			kind := failedKind(validator.Values{"status": status, "start_date": ""}, "start_date", rule)
			assert.Empty(t, kind)
		})
	}

	t.Run("missing other field reads as empty", func(t *testing.T) {
		t.Parallel()
		kind := failedKind(validator.Values{}, "end_date", "requiredIf:has_end,")
		assert.Equal(t, validator.KindRequiredIf, kind)
	})

	t.Run("compares stringified numbers and bools", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, validator.KindRequiredIf,
			failedKind(validator.Values{"type": float64(2)}, "amount", "requiredIf:type,2"))
		assert.Equal(t, validator.KindRequiredIf,
			failedKind(validator.Values{"type": json.Number("2")}, "amount", "requiredIf:type,2"))
		assert.Equal(t, validator.KindRequiredIf,
			failedKind(validator.Values{"has_end": true}, "end_date", "requiredIf:has_end,true"))
	})

	t.Run("expected value may contain colons and commas", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, validator.KindRequiredIf,
			failedKind(validator.Values{"time": "10:30"}, "note", "requiredIf:time,10:30"))
		assert.Equal(t, validator.KindRequiredIf,
			failedKind(validator.Values{"pair": "a,b"}, "note", "requiredIf:pair,a,b"))
	})

	t.Run("requires both parameters", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "requiredIf"))
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "requiredIf:status"))
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "requiredIf:,x"))
	})
}

func TestTypeRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  string
		value any
		want  validator.ErrorKind
	}{
		{"string accepts text", "string", "abc", ""},
		{"string skips empty", "string", "", ""},
		{"string skips zero", "string", 0, ""},
		{"string rejects number", "string", 12, validator.KindString},
		{"string rejects list", "string", []any{"a"}, validator.KindString},
		{"number accepts int", "number", 12, ""},
		{"number accepts float", "number", 1.5, ""},
		{"number accepts json number", "number", json.Number("7"), ""},
		{"number accepts decimal", "number", decimal.RequireFromString("19.99"), ""},
		{"number rejects numeric string", "number", "12", validator.KindNumber},
		{"number skips nil", "number", nil, ""},
		{"array accepts slice", "array", []string{"a"}, ""},
		{"array accepts empty slice", "array", []any{}, ""},
		{"array accepts fixed array", "array", [2]int{1, 2}, ""},
		{"array rejects string", "array", "a,b", validator.KindArray},
		{"array rejects map", "array", map[string]any{"a": 1}, validator.KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, failedKind(validator.Values{"f": tt.value}, "f", tt.rule))
		})
	}
}

func TestBoundRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  string
		value any
		want  validator.ErrorKind
	}{
		{"min passes above", "minValue:1", 5, ""},
		{"min passes equal", "minValue:1", 1, ""},
		{"min fails below", "minValue:2", 1, validator.KindMinValue},
		{"min parses numeric strings", "minValue:10", "9", validator.KindMinValue},
		{"min fails empty string", "minValue:1", "", validator.KindMinValue},
		{"min skips non numeric strings", "minValue:10", "abc", ""},
		{"min accepts decimal", "minValue:0.5", decimal.RequireFromString("0.75"), ""},
		{"max passes below", "maxValue:100", 99.9, ""},
		{"max passes equal", "maxValue:100", 100, ""},
		{"max fails above", "maxValue:100", 100.01, validator.KindMaxValue},
		{"max fails nil", "maxValue:100", nil, validator.KindMaxValue},
		{"negative bound", "minValue:-5", -3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, failedKind(validator.Values{"f": tt.value}, "f", tt.rule))
		})
	}

	t.Run("parameter is the parsed bound", func(t *testing.T) {
		t.Parallel()
		res := validator.Validate(validator.Values{"f": 1}, validator.Rules{"f": "minValue:2.5"})
		assert.Equal(t, 2.5, res.Errors["f"].Properties.Parameter)
	})

	t.Run("bad parameter", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "minValue"))
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "maxValue:ten"))
	})
}

// Falsy values always fail the bound and length rules, even where the comparison
// alone would pass. Kept deliberately; see package docs.
func TestFalsyValuesFailBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, validator.KindMinValue, failedKind(validator.Values{"f": 0}, "f", "minValue:0"))
	assert.Equal(t, validator.KindMaxValue, failedKind(validator.Values{"f": 0}, "f", "maxValue:10"))
	assert.Equal(t, validator.KindMinLength, failedKind(validator.Values{"f": ""}, "f", "minLength:0"))
	assert.Equal(t, validator.KindMaxLength, failedKind(validator.Values{"f": ""}, "f", "maxLength:10"))
}

func TestLengthRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  string
		value any
		want  validator.ErrorKind
	}{
		{"min fails short", "minLength:5", "abcd", validator.KindMinLength},
		{"min passes exact", "minLength:5", "abcde", ""},
		{"min fails empty", "minLength:5", "", validator.KindMinLength},
		{"min counts runes", "minLength:3", "äöü", ""},
		{"min counts list items", "minLength:2", []any{"a"}, validator.KindMinLength},
		{"min checks empty list length", "minLength:1", []any{}, validator.KindMinLength},
		{"max passes exact", "maxLength:3", "abc", ""},
		{"max fails long", "maxLength:3", "abcd", validator.KindMaxLength},
		{"max counts list items", "maxLength:1", []string{"a", "b"}, validator.KindMaxLength},
		{"numbers have no length", "minLength:5", 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, failedKind(validator.Values{"f": tt.value}, "f", tt.rule))
		})
	}

	t.Run("parameter is the parsed limit", func(t *testing.T) {
		t.Parallel()
		res := validator.Validate(validator.Values{"f": "abcdefghijk"}, validator.Rules{"f": "maxLength:10"})
		assert.Equal(t, validator.ErrorDescriptor{
			Kind:       validator.KindMaxLength,
			Properties: validator.Properties{Field: "f", Parameter: 10},
		}, res.Errors["f"])
	})

	t.Run("bad parameter", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "minLength:-1"))
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "maxLength:"))
		assert.Equal(t, validator.KindConfiguration, failedKind(nil, "f", "maxLength:1.5"))
	})
}

func ptr[T any](v T) *T { return &v }
