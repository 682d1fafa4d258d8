package clientip

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/discountkit/pkg/logger"
)

// Middleware resolves the client address once per request and stores it in
// the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIP(r.Context(), res.IP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware resolves the client address using DefaultHeaders.
func Middleware(next http.Handler) http.Handler {
	return defaultResolver.Middleware(next)
}

// LogExtractor adds the client address to log records.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		ip := FromContext(ctx)
		if ip == "" {
			return slog.Attr{}, false
		}
		return logger.ClientIP(ip), true
	}
}
