package api

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/discountkit/handler"
	"github.com/dmitrymomot/discountkit/internal/draft"
	"github.com/dmitrymomot/discountkit/pkg/forms"
	"github.com/dmitrymomot/discountkit/pkg/tiers"
)

var (
	errUnknownForm     = handler.NewHTTPError(http.StatusNotFound, "form_not_found")
	errUnknownDraft    = handler.NewHTTPError(http.StatusNotFound, "draft_not_found")
	errKindMismatch    = handler.NewHTTPError(http.StatusConflict, "kind_mismatch")
	errOutOfOrder      = handler.NewHTTPError(http.StatusUnprocessableEntity, "out_of_order")
	errIndexOutOfRange = handler.NewHTTPError(http.StatusBadRequest, "index_out_of_range")
	errInvalidPayload  = handler.NewHTTPError(http.StatusBadRequest, "invalid_payload")
	errUnknownOp       = handler.NewHTTPError(http.StatusBadRequest, "unknown_op")
	errUnknownKind     = handler.NewHTTPError(http.StatusBadRequest, "unknown_kind")
	errInvalidMatrix   = handler.NewHTTPError(http.StatusBadRequest, "invalid_matrix")
)

// NewErrorHandler returns the JSON error handler with the domain errors of the
// forms, tiers and draft packages mapped to HTTP statuses. Mappings are
// matched in order.
func NewErrorHandler(log *slog.Logger) handler.ErrorHandler[handler.Context] {
	return handler.NewErrorHandler(log,
		handler.WithErrorMapping(forms.ErrFormNotFound, errUnknownForm),
		handler.WithErrorMapping(draft.ErrNotFound, errUnknownDraft),
		// a rejected reset payload wraps the tiers error that caused it
		handler.WithErrorMapping(draft.ErrInvalidPayload, errInvalidPayload),
		handler.WithErrorMapping(draft.ErrKindMismatch, errKindMismatch),
		handler.WithErrorMapping(tiers.ErrOutOfOrder, errOutOfOrder),
		handler.WithErrorMapping(tiers.ErrIndexOutOfRange, errIndexOutOfRange),
		handler.WithErrorMapping(draft.ErrUnknownOp, errUnknownOp),
		handler.WithErrorMapping(draft.ErrUnknownKind, errUnknownKind),
		handler.WithErrorMapping(tiers.ErrNoVariants, errInvalidMatrix),
		handler.WithErrorMapping(tiers.ErrDuplicateVariant, errInvalidMatrix),
		handler.WithErrorMapping(tiers.ErrMisaligned, errInvalidMatrix),
		handler.WithErrorMapping(tiers.ErrPriceMismatch, errInvalidMatrix),
	)
}
