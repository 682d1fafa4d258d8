// Package validator evaluates declarative, pipe-delimited rule strings against a
// bag of named field values and reports failures as translatable error descriptors.
//
// A rule specification maps a field name to a rule string:
//
//	rules := validator.Rules{
//	    "title":      "required|string|minLength:5|maxLength:150",
//	    "start_date": "requiredIf:status,SCHEDULED",
//	}
//
// Each token is either `name` or `name:parameter`. Only rules that take several
// parameters (requiredIf) split the parameter on commas.
//
// # Evaluation
//
// Rules of a single field run left to right and stop at the first failure; every
// field is evaluated regardless of failures in other fields. Rule functions receive
// the complete value bag, so cross-field rules read sibling values directly. The
// package keeps no state between calls and is safe for concurrent use.
//
//	res := validator.Validate(validator.Values{"title": "ok"}, rules)
//	if res.Failed {
//	    desc := res.Errors["title"]
//	    // desc.Kind == validator.KindMinLength
//	    // desc.Properties.Parameter == 5
//	}
//
// Rule strings that are evaluated repeatedly should be compiled once:
//
//	schema := validator.MustCompile(rules)
//	res := schema.Validate(values)
//
// # Error descriptors
//
// The package never produces human text. An ErrorDescriptor carries a stable Kind
// and up to three properties (field, parameter, field2) that a translation layer
// interpolates into a localized message.
//
// Unknown rule names and malformed parameters are configuration errors. Compile
// reports them as errors; Validate reports them per field with KindConfiguration so a
// bad rule never silently passes.
//
// # Falsy values
//
// minValue, maxValue, minLength and maxLength fail for any falsy value (nil, false,
// "", numeric zero) before comparing. `minValue:0` therefore rejects 0. Existing forms
// rely on this, so it is kept as is.
package validator
