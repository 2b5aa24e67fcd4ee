package middleware

import (
	"net/http"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
)

// Timeout bounds the request context so store calls give up instead of hanging.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := internal.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
