package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/httputil"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/logger"
)

// Recovery turns a handler panic into a 500 response instead of a dropped
// connection. http.ErrAbortHandler is re-panicked so net/http can abort the
// response as intended.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "INTERNAL_ERROR",
						Message:   "an internal error occurred",
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
