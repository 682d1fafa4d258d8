package validator

import "strconv"

func minLengthRule(params []string) (check, error) {
	limit, err := intParam(params)
	if err != nil {
		return nil, err
	}
	return lengthRule(KindMinLength, limit, func(n int) bool { return n < limit }), nil
}

func maxLengthRule(params []string) (check, error) {
	limit, err := intParam(params)
	if err != nil {
		return nil, err
	}
	return lengthRule(KindMaxLength, limit, func(n int) bool { return n > limit }), nil
}

// lengthRule fails for falsy values and for values whose length violates the limit.
// Values without a length (numbers, bools) only go through the falsy check.
func lengthRule(kind ErrorKind, limit int, violates func(int) bool) check {
	return func(field string, values Values) *ErrorDescriptor {
		v := values.Get(field)
		if truthy(v) {
			n, ok := length(v)
			if !ok || !violates(n) {
				return nil
			}
		}
		return &ErrorDescriptor{
			Kind:       kind,
			Properties: Properties{Field: field, Parameter: limit},
		}
	}
}

func intParam(params []string) (int, error) {
	if len(params) != 1 || params[0] == "" {
		return 0, ErrInvalidParameter
	}
	n, err := strconv.Atoi(params[0])
	if err != nil || n < 0 {
		return 0, ErrInvalidParameter
	}
	return n, nil
}
