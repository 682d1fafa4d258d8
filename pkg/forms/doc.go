// Package forms keeps the named rule specifications of the admin forms.
//
// Forms are declared in YAML:
//
//	forms:
//	  support_ticket:
//	    fields:
//	      subject: required|string|minLength:5|maxLength:150
//	      order_id: requiredIf:category,order
//
// Every form is compiled into a validator.Schema when the document is loaded, so
// a broken rule string fails at startup instead of on the first submission.
// Default returns the registry built from the embedded forms.yaml; LoadFile
// replaces it with an operator supplied document.
//
//	reg, err := forms.LoadFile(ctx, cfg.FormsFile)
//	schema, err := reg.Get("support_ticket")
//	res := schema.Validate(values)
package forms
