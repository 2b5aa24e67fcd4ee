package rest

import (
	"net/http"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/auth"
	"github.com/frahmantamala/payroll-management/internal/company"
	"github.com/frahmantamala/payroll-management/internal/currency"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/observability/metrics"
	"github.com/frahmantamala/payroll-management/internal/observability/tracing"
	"github.com/frahmantamala/payroll-management/internal/payment"
	"github.com/frahmantamala/payroll-management/internal/setting"
	"github.com/frahmantamala/payroll-management/internal/transport/middleware"
	"github.com/frahmantamala/payroll-management/internal/transport/swagger"
	"github.com/frahmantamala/payroll-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the per-domain HTTP handlers. A nil handler leaves its routes unmounted.
type Handlers struct {
	Health   *HealthHandler
	Auth     *auth.Handler
	User     *user.Handler
	Company  *company.Handler
	Employee *employee.Handler
	Payment  *payment.Handler
	Setting  *setting.Handler
	Currency *currency.Handler
}

type Options struct {
	ServiceName  string
	QueryTimeout time.Duration
	Server       internal.ServerConfig
	RateLimit    internal.RateLimitConfig
	Metrics      internal.MetricsConfig
	Tracing      internal.TracingConfig
	OpenAPI      []byte
}

func RegisterAllRoutes(router *chi.Mux, opts Options, h Handlers) {
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	if opts.Tracing.Enabled {
		router.Use(tracing.Middleware(opts.ServiceName))
	}
	if opts.Metrics.Enabled {
		router.Use(metrics.HTTPMetricsMiddleware)
	}
	router.Use(middleware.CORS(opts.Server.Origins()))
	router.Use(middleware.SecurityHeaders(opts.Server.SecurityHeaders))
	router.Use(middleware.BodyLimit(opts.Server.MaxBodyBytes))
	router.Use(middleware.Logging)

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, internal.Response{Error: "Not Found", Type: internal.ErrorTypeNotFound})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, internal.Response{Error: "Method Not Allowed", Type: internal.ErrorTypeValidation})
	})

	if opts.Metrics.Enabled {
		router.Handle(opts.Metrics.Path, metrics.Handler())
	}
	if len(opts.OpenAPI) > 0 {
		router.Get(swagger.SpecPath, swagger.SpecHandler(opts.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.QueryTimeout))

		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pub chi.Router) {
			pub.Use(middleware.RateLimit(opts.RateLimit))
			pub.Post("/auth/register", h.Auth.Register)
			pub.Post("/auth/login", h.Auth.Login)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/auth/me", h.User.GetCurrentUser)
				pr.Get("/auth/profile", h.User.GetCurrentUser)
				pr.Put("/auth/profile", h.User.UpdateProfile)
				pr.Put("/auth/password", h.User.ChangePassword)
			}

			if h.Company != nil {
				pr.Route("/companies", func(cr chi.Router) {
					cr.Get("/", h.Company.GetMine)
					cr.Post("/", h.Company.CreateCompany)
					cr.Get("/{id}", h.Company.GetCompany)
					cr.Put("/{id}", h.Company.UpdateCompany)
				})
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.ListEmployees)
					er.Post("/", h.Employee.CreateEmployee)
					er.Get("/{id}", h.Employee.GetEmployee)
					er.Put("/{id}", h.Employee.UpdateEmployee)
					er.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			}

			if h.Payment != nil {
				pr.Route("/payments", func(pmr chi.Router) {
					pmr.Get("/", h.Payment.ListPayments)
					pmr.Post("/", h.Payment.CreatePayment)
					pmr.Get("/{id}", h.Payment.GetPayment)
					pmr.Put("/{id}", h.Payment.UpdatePayment)
					pmr.Delete("/{id}", h.Payment.DeletePayment)
				})
			}

			if h.Setting != nil {
				pr.Get("/settings/exchange-rate", h.Setting.GetExchangeRate)
				pr.Put("/settings/exchange-rate", h.Setting.SetExchangeRate)
			}

			if h.Currency != nil {
				pr.Get("/currency/rates", h.Currency.GetRates)
				pr.Get("/currency/convert", h.Currency.Convert)
			}
		})
	})
}
