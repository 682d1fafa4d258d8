package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/discountkit/handler"
	"github.com/dmitrymomot/discountkit/pkg/binder"
	"github.com/dmitrymomot/discountkit/pkg/forms"
	"github.com/dmitrymomot/discountkit/pkg/logger"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

// ValidationService serves stateless validation: ad-hoc rule sets and the
// named forms of the registry.
type ValidationService struct {
	forms        *forms.Registry
	log          *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewValidationService(registry *forms.Registry, log *slog.Logger, errorHandler handler.ErrorHandler[handler.Context]) *ValidationService {
	if log == nil {
		log = slog.Default()
	}
	return &ValidationService{forms: registry, log: log, errorHandler: errorHandler}
}

func (s *ValidationService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/validate", handler.Wrap(s.validate,
		handler.WithBinders[handler.Context, ValidateRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, ValidateRequest](s.errorHandler),
	))

	r.Get("/forms", handler.Wrap(s.listForms,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	r.Get("/forms/{form}", handler.Wrap(s.getForm,
		handler.WithBinders[handler.Context, FormRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, FormRequest](s.errorHandler),
	))

	r.Post("/forms/{form}/validate", handler.Wrap(s.validateForm,
		handler.WithBinders[handler.Context, FormValidateRequest](
			binder.Path(chi.URLParam),
			binder.Query(),
			binder.JSON(),
		),
		handler.WithErrorHandler[handler.Context, FormValidateRequest](s.errorHandler),
	))

	return r
}

// ValidateRequest validates values against rules sent by the client. Unknown
// rules come back as configuration_error descriptors, not as a failed request.
type ValidateRequest struct {
	Values validator.Values `json:"values"`
	Rules  validator.Rules  `json:"rules"`
}

func (s *ValidationService) validate(ctx handler.Context, req ValidateRequest) handler.Response {
	return handler.JSON(validator.Validate(req.Values, req.Rules))
}

func (s *ValidationService) listForms(ctx handler.Context, _ struct{}) handler.Response {
	names := s.forms.Names()
	return handler.JSON(names, handler.WithJSONMeta(map[string]any{"count": len(names)}))
}

type FormRequest struct {
	Form string `path:"form" json:"-"`
}

// FormSchema is the rule set of one form, so the front-end can run the same
// rules before submitting.
type FormSchema struct {
	Name  string          `json:"name"`
	Rules validator.Rules `json:"rules"`
}

func (s *ValidationService) getForm(ctx handler.Context, req FormRequest) handler.Response {
	rules, err := s.forms.Rules(req.Form)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(FormSchema{Name: req.Form, Rules: rules})
}

// FormValidateRequest validates values against a named form. Only restricts
// the check to the listed fields (?only=subject,email), which is how a single
// input is validated on blur.
type FormValidateRequest struct {
	Form   string           `path:"form" json:"-"`
	Only   []string         `query:"only" json:"-"`
	Values validator.Values `json:"values"`
}

func (s *ValidationService) validateForm(ctx handler.Context, req FormValidateRequest) handler.Response {
	schema, err := s.forms.Get(req.Form)
	if err != nil {
		return handler.Fail(err)
	}

	res := schema.Validate(req.Values, req.Only...)
	if res.Failed {
		s.log.DebugContext(ctx, "form validation failed",
			logger.Form(req.Form),
			logger.Failed(len(res.Errors)),
		)
	}
	return handler.JSON(res)
}
