package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// deref unwraps pointers; a nil pointer or nil slice/map reads as nil.
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return nil
		}
	}
	return rv.Interface()
}

// truthy reports whether v counts as a present value. nil, false, "", numeric
// zero and NaN are falsy; empty lists are truthy.
func truthy(v any) bool {
	v = deref(v)
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if n, ok := toNumber(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

// isEmpty is the failure condition of required: falsy or zero length.
func isEmpty(v any) bool {
	if !truthy(v) {
		return true
	}
	n, ok := length(v)
	return ok && n == 0
}

func isList(v any) bool {
	v = deref(v)
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// length returns the rune count of strings and the element count of lists and maps.
func length(v any) (int, bool) {
	v = deref(v)
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// toNumber converts numeric types to float64. Strings are not numbers.
func toNumber(v any) (float64, bool) {
	v = deref(v)
	switch x := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case decimal.Decimal:
		return x.InexactFloat64(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toComparable is toNumber extended with numeric strings, the way form inputs
// usually arrive.
func toComparable(v any) (float64, bool) {
	if n, ok := toNumber(v); ok {
		return n, !math.IsNaN(n)
	}
	if s, ok := deref(v).(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

// stringify renders v the way requiredIf compares it against its expected value.
func stringify(v any) string {
	v = deref(v)
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case decimal.Decimal:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
