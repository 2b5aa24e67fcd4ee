package middleware_test

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payroll-management/pkg/logger"
)

func withLogger(r *http.Request, lg *slog.Logger) context.Context {
	return logger.NewContext(r.Context(), lg)
}
