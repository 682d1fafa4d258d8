package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/discountkit/handler"
	"github.com/dmitrymomot/discountkit/pkg/clientip"
	"github.com/dmitrymomot/discountkit/pkg/httpserver"
	"github.com/dmitrymomot/discountkit/pkg/logger"
	"github.com/dmitrymomot/discountkit/pkg/ratelimiter"
	"github.com/dmitrymomot/discountkit/pkg/requestid"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures the API router. Services left nil are not mounted.
// A nil RateLimit leaves /v1 unlimited; a nil ClientIP resolves addresses
// with clientip.DefaultHeaders.
type RouterOptions struct {
	Logger     *slog.Logger
	Validation Mountable
	Drafts     Mountable
	Readiness  []httpserver.Check
	RateLimit  *ratelimiter.Bucket
	ClientIP   *clientip.Resolver
}

// Router creates the API router.
//
//	errs := api.NewErrorHandler(log)
//	r := api.Router(api.RouterOptions{
//		Logger:     log,
//		Validation: api.NewValidationService(registry, log, errs),
//		Drafts:     api.NewDraftService(drafts, errs),
//		Readiness:  []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
//	})
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	resolver := opts.ClientIP
	if resolver == nil {
		resolver = clientip.NewResolver(clientip.DefaultHeaders...)
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		resolver.Middleware,
		middleware.Recoverer,
		requestLogger(log),
	)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, opts.Readiness...))

	notFound := handler.JSONError(handler.ErrNotFound)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) { _ = notFound.Render(w, r) })
	notAllowed := handler.JSONError(handler.ErrMethodNotAllowed)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) { _ = notAllowed.Render(w, r) })

	r.Route("/v1", func(v1 chi.Router) {
		if opts.RateLimit != nil {
			v1.Use(rateLimit(log, opts.RateLimit))
		}
		if opts.Validation != nil {
			v1.Mount("/", opts.Validation.Handle())
		}
		if opts.Drafts != nil {
			v1.Mount("/drafts", opts.Drafts.Handle())
		}
	})

	return r
}

// rateLimit limits /v1 per client address. Store failures fail closed with
// 503 so a broken backend cannot disable the limit.
func rateLimit(log *slog.Logger, b *ratelimiter.Bucket) func(http.Handler) http.Handler {
	limited := handler.JSONError(handler.ErrTooManyRequests)
	unavailable := handler.JSONError(handler.ErrServiceUnavailable)

	return ratelimiter.Middleware(b, ratelimiter.ByIP,
		ratelimiter.WithLimitedHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = limited.Render(w, r)
		}),
		ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.ErrorContext(r.Context(), "rate limit check failed",
				logger.Error(err),
				logger.Component("ratelimit"),
			)
			_ = unavailable.Render(w, r)
		}),
	)
}

// requestLogger logs one record per request. Health probes are logged at debug.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
				level = slog.LevelDebug
			}
			log.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				logger.Duration(time.Since(start)),
				logger.Component("http"),
			)
		})
	}
}
