// Package binder decodes HTTP requests into typed request structs.
//
// Each binder has the signature func(*http.Request, any) error and handles one
// source, so several can be applied to the same struct:
//
//	type OpRequest struct {
//		ID uuid.UUID `path:"id" json:"-"`
//		Op draft.Op  `json:"op"`
//	}
//
//	handler.WithBinders[OpRequest](
//		binder.Path(chi.URLParam), // path:"..." tags
//		binder.Query(),            // query:"..." tags
//		binder.JSON(),             // request body
//	)
//
// # Available Binders
//
// JSON decodes an application/json body in strict mode: unknown fields and
// trailing data are rejected and the body is capped at DefaultMaxJSONSize
// unless WithMaxSize says otherwise.
//
// Path reads route parameters through an extractor (chi.URLParam), Query reads
// the URL query string. Both support strings, integers, floats, booleans,
// pointers for optional values, slices, and any type implementing
// encoding.TextUnmarshaler.
//
// # Errors
//
// Every failure wraps one of the sentinel errors in errors.go; IsBindError
// tells a binding failure apart from an application error, which the HTTP
// layer maps to 400 Bad Request.
package binder
