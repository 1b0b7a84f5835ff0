package middleware

import (
	"log/slog"
	"net/http"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/logger"
)

// RequestLogger builds a request-scoped logger carrying correlation_id,
// trace_id and span_id and stores it with logger.NewContext. Mount it after
// RequestLogging and Tracing so those values are already in the context.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Page tags the request with the storefront page it renders. The page name is
// added to the context logger so every line emitted while serving it carries
// a page attribute.
func Page(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithPage(r.Context(), name)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("page", name)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
