package validator

import (
	"errors"
	"fmt"
	"strings"
)

// check evaluates one rule for field against the whole value bag.
// It returns nil when the rule passes.
type check func(field string, values Values) *ErrorDescriptor

// ruleFactory builds a check from the raw parameter list of a token.
type ruleFactory func(params []string) (check, error)

type rule struct {
	name  string
	check check
}

type fieldRules struct {
	field string
	rules []rule
}

// check runs the field's rules in order and stops at the first failure.
func (f fieldRules) check(values Values) *ErrorDescriptor {
	for _, r := range f.rules {
		if desc := r.check(f.field, values); desc != nil {
			return desc
		}
	}
	return nil
}

// Schema is a compiled rule specification. It is immutable and safe for concurrent use.
type Schema struct {
	fields []fieldRules
}

// Compile parses every rule string of rules. The returned error joins one
// *RuleError per broken token.
func Compile(rules Rules) (*Schema, error) {
	s := &Schema{fields: make([]fieldRules, 0, len(rules))}
	var errs []error
	for _, field := range sortedFields(rules) {
		compiled, err := compileField(field, rules[field])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.fields = append(s.fields, compiled)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// MustCompile is like Compile but panics on configuration errors.
// Intended for rule sets declared at startup.
func MustCompile(rules Rules) *Schema {
	s, err := Compile(rules)
	if err != nil {
		panic(fmt.Sprintf("validator: %v", err))
	}
	return s
}

// Fields returns the validated field names in sorted order.
func (s *Schema) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.field)
	}
	return out
}

// Validate checks values against the schema. When only is non-empty, fields not
// listed are skipped; this is how a single field is re-validated on change.
func (s *Schema) Validate(values Values, only ...string) Result {
	var filter map[string]bool
	if len(only) > 0 {
		filter = make(map[string]bool, len(only))
		for _, f := range only {
			filter[f] = true
		}
	}

	res := newResult()
	for _, f := range s.fields {
		if filter != nil && !filter[f.field] {
			continue
		}
		if desc := f.check(values); desc != nil {
			res.add(f.field, *desc)
		}
	}
	return res
}

func compileField(field, spec string) (fieldRules, error) {
	out := fieldRules{field: field}
	for _, token := range strings.Split(spec, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		r, err := parseToken(token)
		if err != nil {
			return fieldRules{}, &RuleError{Field: field, Token: token, Err: err}
		}
		out.rules = append(out.rules, r)
	}
	return out, nil
}

// parseToken splits "name:parameter" on the first colon so parameters may contain colons.
func parseToken(token string) (rule, error) {
	name, param, hasParam := strings.Cut(token, ":")
	name = strings.TrimSpace(name)

	factory, ok := factories[name]
	if !ok {
		return rule{}, ErrUnknownRule
	}

	var params []string
	if hasParam {
		params = []string{strings.TrimSpace(param)}
	}
	c, err := factory(params)
	if err != nil {
		return rule{}, err
	}
	return rule{name: name, check: c}, nil
}

// factories is the closed set of supported rules.
var factories = map[string]ruleFactory{
	"required":   requiredRule,
	"requiredIf": requiredIfRule,
	"string":     stringRule,
	"number":     numberRule,
	"array":      arrayRule,
	"minValue":   minValueRule,
	"maxValue":   maxValueRule,
	"minLength":  minLengthRule,
	"maxLength":  maxLengthRule,
}
