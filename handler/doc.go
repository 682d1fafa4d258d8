// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a bound request struct and returns a Response. Wrap
// turns it into an http.HandlerFunc, applying binders before the call and
// routing every failure (binding, Fail responses, render errors) through a
// single ErrorHandler:
//
//	type ValidateRequest struct {
//		Values validator.Values `json:"values"`
//		Rules  validator.Rules  `json:"rules"`
//	}
//
//	func validate(ctx handler.Context, req ValidateRequest) handler.Response {
//		return handler.JSON(validator.Validate(req.Values, req.Rules))
//	}
//
//	errs := handler.NewErrorHandler(log,
//		handler.WithErrorMapping(draft.ErrNotFound, handler.ErrNotFound),
//	)
//	r.Post("/v1/validate", handler.Wrap(validate,
//		handler.WithBinders[handler.Context, ValidateRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, ValidateRequest](errs),
//	))
//
// # Responses
//
// Every body uses the JSONResponse envelope:
//
//	{"data": ..., "meta": {...}, "error": {"code": "...", "message": "...", "fields": {...}}}
//
// JSON renders data, JSONError renders an error directly, Fail hands an error
// to the ErrorHandler and Empty writes a bare status code.
//
// # Errors
//
// HTTPError pairs a status code with a stable key. Validation failures
// (validator.ValidationErrors) become 422 with one descriptor per field so the
// client can translate them; binder errors become 400, 413 or 415. Messages of
// server errors are never exposed.
package handler
