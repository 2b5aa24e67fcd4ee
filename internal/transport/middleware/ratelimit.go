package middleware

import (
	"net/http"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/go-chi/httprate"
)

// RateLimit limits requests per client IP. A disabled config yields a pass-through.
func RateLimit(cfg internal.RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled || cfg.AuthRequests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.AuthRequests,
		cfg.AuthWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Warn("rate limit exceeded",
				"ip", r.RemoteAddr,
				"path", r.URL.Path,
				"method", r.Method,
			)
			writeError(w, http.StatusTooManyRequests, internal.Response{
				Error: "Too many requests, please try again later",
				Type:  internal.ErrorTypeValidation,
				Code:  internal.ErrCodeRateLimited,
			})
		}),
	)
}
