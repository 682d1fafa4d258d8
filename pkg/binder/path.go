package binder

import (
	"fmt"
	"net/http"
)

// Path creates a binder for `path:"name"` tagged fields using extractor to read
// the route parameter. With chi this is chi.URLParam:
//
//	type DraftRequest struct {
//		ID uuid.UUID `path:"id"`
//	}
//
//	r.Get("/v1/drafts/{id}", handler.Wrap(getDraft,
//		handler.WithBinders[DraftRequest](binder.Path(chi.URLParam)),
//	))
//
// Empty parameters leave the field untouched. Types implementing
// encoding.TextUnmarshaler (uuid.UUID, decimal.Decimal) are decoded through it.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}
		return bindToStruct(v, "path", func(name string) []string {
			if val := extractor(r, name); val != "" {
				return []string{val}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
