package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"ZeroTrustDashboard/internal/logger"
)

// Recovery turns handler panics into a 500. http.ErrAbortHandler is
// re-raised so net/http can abort the response as intended.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.Error("PANIC in %s %s: %v", r.Method, r.URL.Path, rec)
				log.Error("Stack trace:\n%s", debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error": "Internal server error"}`))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
