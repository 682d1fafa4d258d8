package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/discountkit/handler"
	"github.com/dmitrymomot/discountkit/internal/draft"
	"github.com/dmitrymomot/discountkit/pkg/binder"
	"github.com/dmitrymomot/discountkit/pkg/tiers"
)

// DraftService exposes the server-held range drafts of the discount forms.
type DraftService struct {
	drafts       *draft.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewDraftService(drafts *draft.Service, errorHandler handler.ErrorHandler[handler.Context]) *DraftService {
	return &DraftService{drafts: drafts, errorHandler: errorHandler}
}

func (s *DraftService) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Post("/", handler.Wrap(s.create,
		handler.WithBinders[handler.Context, CreateDraftRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, CreateDraftRequest](s.errorHandler),
	))

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.Wrap(s.get,
			handler.WithBinders[handler.Context, DraftRequest](path),
			handler.WithErrorHandler[handler.Context, DraftRequest](s.errorHandler),
		))
		r.Put("/", handler.Wrap(s.reset,
			handler.WithBinders[handler.Context, ResetDraftRequest](path, binder.JSON()),
			handler.WithErrorHandler[handler.Context, ResetDraftRequest](s.errorHandler),
		))
		r.Delete("/", handler.Wrap(s.delete,
			handler.WithBinders[handler.Context, DraftRequest](path),
			handler.WithErrorHandler[handler.Context, DraftRequest](s.errorHandler),
		))
		r.Post("/ops", handler.Wrap(s.apply,
			handler.WithBinders[handler.Context, OpRequest](path, binder.JSON()),
			handler.WithErrorHandler[handler.Context, OpRequest](s.errorHandler),
		))
		r.Post("/validate", handler.Wrap(s.validate,
			handler.WithBinders[handler.Context, DraftRequest](path),
			handler.WithErrorHandler[handler.Context, DraftRequest](s.errorHandler),
		))
	})

	return r
}

// CreateDraftRequest opens a draft. Variants are required for price drafts
// and ignored for quantity drafts.
type CreateDraftRequest struct {
	Kind     draft.Kind      `json:"kind"`
	Variants []tiers.Variant `json:"variants,omitempty"`
}

func (s *DraftService) create(ctx handler.Context, req CreateDraftRequest) handler.Response {
	d, err := s.drafts.Create(ctx, req.Kind, req.Variants)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(d, handler.WithJSONStatus(http.StatusCreated))
}

type DraftRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
}

func (s *DraftService) get(ctx handler.Context, req DraftRequest) handler.Response {
	d, err := s.drafts.Get(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(d)
}

// ResetDraftRequest carries the ranges that replace the draft's state.
type ResetDraftRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	draft.Payload
}

func (s *DraftService) reset(ctx handler.Context, req ResetDraftRequest) handler.Response {
	d, err := s.drafts.Reset(ctx, req.ID, req.Payload)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(d)
}

func (s *DraftService) delete(ctx handler.Context, req DraftRequest) handler.Response {
	if err := s.drafts.Delete(ctx, req.ID); err != nil {
		return handler.Fail(err)
	}
	return handler.Empty()
}

// OpRequest is one edit, e.g. {"op":"set_quantity","index":1,"quantity":5}.
type OpRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	draft.Op
}

func (s *DraftService) apply(ctx handler.Context, req OpRequest) handler.Response {
	d, err := s.drafts.Apply(ctx, req.ID, req.Op)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(d)
}

func (s *DraftService) validate(ctx handler.Context, req DraftRequest) handler.Response {
	res, err := s.drafts.Validate(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(res)
}
