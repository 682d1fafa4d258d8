package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/discountkit/pkg/binder"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

// JSONResponse is the standard JSON response structure
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information. Fields carries the translatable
// descriptors of a failed validation, keyed by field name.
type ErrorDetail struct {
	Code    string                               `json:"code,omitempty"`
	Message string                               `json:"message,omitempty"`
	Fields  map[string]validator.ErrorDescriptor `json:"fields,omitempty"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, j.status, j.body)
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata to response
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON creates a JSON response with options
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}

	switch val := v.(type) {
	case JSONResponse:
		r.body = val
	case *ErrorDetail:
		r.body.Error = val
		r.status = http.StatusInternalServerError
	case error:
		r.status, r.body.Error = classify(val, nil)
	default:
		r.body.Data = v
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// JSONError creates a JSON error response without going through the error
// handler. Prefer Fail when the error should be logged.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{}
	r.status, r.body.Error = classify(err, nil)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// failResponse hands its error to the configured ErrorHandler.
type failResponse struct{ err error }

func (f failResponse) Render(http.ResponseWriter, *http.Request) error {
	return f.err
}

// Fail returns a Response that renders nothing itself and routes err through
// the ErrorHandler passed to Wrap, so every failure is logged and mapped the
// same way.
func Fail(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return failResponse{err: err}
}

// classify maps err to a status code and error body. mappings are consulted
// after HTTPError and before the built-in validation and binding rules.
func classify(err error, mappings []errorMapping) (int, *ErrorDetail) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, detailFor(httpErr, err)
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.as.Code, detailFor(m.as, err)
		}
	}

	if ve := validator.ExtractValidationErrors(err); ve != nil {
		detail := &ErrorDetail{
			Code:    "validation_failed",
			Message: validator.ErrValidationFailed.Error(),
			Fields:  make(map[string]validator.ErrorDescriptor, len(ve)),
		}
		for _, desc := range ve {
			detail.Fields[desc.Properties.Field] = desc
		}
		return http.StatusUnprocessableEntity, detail
	}

	if binder.IsBindError(err) {
		as := ErrBadRequest
		switch {
		case errors.Is(err, binder.ErrBodyTooLarge):
			as = ErrRequestEntityTooLarge
		case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
			as = ErrUnsupportedMediaType
		}
		return as.Code, detailFor(as, err)
	}

	return http.StatusInternalServerError, detailFor(ErrInternalServerError, err)
}

// detailFor exposes the error message for client errors only.
func detailFor(as HTTPError, err error) *ErrorDetail {
	detail := &ErrorDetail{Code: as.Key, Message: http.StatusText(as.Code)}
	if as.Code < http.StatusInternalServerError && err.Error() != as.Key {
		detail.Message = err.Error()
	}
	return detail
}
