package validator

import "strings"

func requiredRule(_ []string) (check, error) {
	return func(field string, values Values) *ErrorDescriptor {
		if isEmpty(values.Get(field)) {
			return &ErrorDescriptor{
				Kind:       KindRequired,
				Properties: Properties{Field: field},
			}
		}
		return nil
	}, nil
}

// requiredIfRule expects "otherField,expectedValue". The field is required when
// the other field's value stringifies to expectedValue.
func requiredIfRule(params []string) (check, error) {
	if len(params) != 1 {
		return nil, ErrInvalidParameter
	}
	other, expected, ok := strings.Cut(params[0], ",")
	other = strings.TrimSpace(other)
	if !ok || other == "" {
		return nil, ErrInvalidParameter
	}
	expected = strings.TrimSpace(expected)

	return func(field string, values Values) *ErrorDescriptor {
		if stringify(values.Get(other)) != expected {
			return nil
		}
		if !isEmpty(values.Get(field)) {
			return nil
		}
		return &ErrorDescriptor{
			Kind: KindRequiredIf,
			Properties: Properties{
				Field:     field,
				Parameter: expected,
				Field2:    other,
			},
		}
	}, nil
}

func stringRule(_ []string) (check, error) {
	return typeRule(KindString, func(v any) bool {
		_, ok := v.(string)
		return ok
	}), nil
}

func numberRule(_ []string) (check, error) {
	return typeRule(KindNumber, func(v any) bool {
		_, ok := toNumber(v)
		return ok
	}), nil
}

func arrayRule(_ []string) (check, error) {
	return typeRule(KindArray, isList), nil
}

// typeRule only inspects present (truthy) values; absence is the job of required.
func typeRule(kind ErrorKind, is func(any) bool) check {
	return func(field string, values Values) *ErrorDescriptor {
		v := deref(values.Get(field))
		if !truthy(v) || is(v) {
			return nil
		}
		return &ErrorDescriptor{
			Kind:       kind,
			Properties: Properties{Field: field},
		}
	}
}
