package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/discountkit/pkg/logger"
	"github.com/dmitrymomot/discountkit/pkg/requestid"
)

type errorMapping struct {
	target error
	as     HTTPError
}

// ErrorHandlerOption configures NewErrorHandler.
type ErrorHandlerOption func(*errorHandlerConfig)

type errorHandlerConfig struct {
	mappings []errorMapping
}

// WithErrorMapping renders errors matching target (errors.Is) as the given
// HTTPError. Mappings are checked in registration order.
//
//	handler.WithErrorMapping(draft.ErrNotFound, handler.ErrNotFound)
func WithErrorMapping(target error, as HTTPError) ErrorHandlerOption {
	return func(c *errorHandlerConfig) {
		if target != nil {
			c.mappings = append(c.mappings, errorMapping{target: target, as: as})
		}
	}
}

// NewErrorHandler creates the JSON error handler. The status is resolved in
// this order: HTTPError in the chain, registered mappings, validation errors
// (422), binding errors (400/413/415), anything else (500). Client errors are
// logged at warn level and server errors at error level. The request id is
// echoed in the response meta.
func NewErrorHandler(log *slog.Logger, opts ...ErrorHandlerOption) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	var cfg errorHandlerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		status, detail := classify(err, cfg.mappings)

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		body := JSONResponse{Error: detail}
		if id := requestid.FromContext(r.Context()); id != "" {
			body.Meta = map[string]any{"request_id": id}
		}
		if werr := writeJSON(ctx.ResponseWriter(), status, body); werr != nil {
			log.LogAttrs(r.Context(), slog.LevelError, "failed to write error response",
				logger.Error(werr),
				logger.Component("error_handler"),
			)
		}
	}
}
