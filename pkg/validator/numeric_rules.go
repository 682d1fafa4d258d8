package validator

import (
	"strconv"
)

func minValueRule(params []string) (check, error) {
	bound, err := floatParam(params)
	if err != nil {
		return nil, err
	}
	return boundRule(KindMinValue, bound, func(v float64) bool { return v < bound }), nil
}

func maxValueRule(params []string) (check, error) {
	bound, err := floatParam(params)
	if err != nil {
		return nil, err
	}
	return boundRule(KindMaxValue, bound, func(v float64) bool { return v > bound }), nil
}

// boundRule fails for falsy values and for comparable values outside the bound.
// Values that cannot be read as a number never fail the comparison.
func boundRule(kind ErrorKind, bound float64, outside func(float64) bool) check {
	return func(field string, values Values) *ErrorDescriptor {
		v := values.Get(field)
		if truthy(v) {
			n, ok := toComparable(v)
			if !ok || !outside(n) {
				return nil
			}
		}
		return &ErrorDescriptor{
			Kind:       kind,
			Properties: Properties{Field: field, Parameter: bound},
		}
	}
}

func floatParam(params []string) (float64, error) {
	if len(params) != 1 || params[0] == "" {
		return 0, ErrInvalidParameter
	}
	f, err := strconv.ParseFloat(params[0], 64)
	if err != nil {
		return 0, ErrInvalidParameter
	}
	return f, nil
}
