package binder

import (
	"fmt"
	"net/http"
	"net/url"
)

// Query creates a binder for `query:"name"` tagged fields. Slice fields accept
// repeated parameters and comma-separated lists:
//
//	type ValidateRequest struct {
//		Only []string `query:"only"`
//	}
//
//	// ?only=subject,email and ?only=subject&only=email bind the same
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values, err := url.ParseQuery(r.URL.RawQuery)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseQuery, err)
		}
		return bindToStruct(v, "query", func(name string) []string {
			return values[name]
		}, ErrFailedToParseQuery)
	}
}
