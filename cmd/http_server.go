package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/payroll-management/api"
	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/auth"
	authPostgres "github.com/frahmantamala/payroll-management/internal/auth/postgres"
	"github.com/frahmantamala/payroll-management/internal/company"
	companyPostgres "github.com/frahmantamala/payroll-management/internal/company/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"github.com/frahmantamala/payroll-management/internal/currency"
	"github.com/frahmantamala/payroll-management/internal/employee"
	employeePostgres "github.com/frahmantamala/payroll-management/internal/employee/postgres"
	"github.com/frahmantamala/payroll-management/internal/observability/tracing"
	"github.com/frahmantamala/payroll-management/internal/payment"
	paymentPostgres "github.com/frahmantamala/payroll-management/internal/payment/postgres"
	"github.com/frahmantamala/payroll-management/internal/setting"
	settingPostgres "github.com/frahmantamala/payroll-management/internal/setting/postgres"
	"github.com/frahmantamala/payroll-management/internal/transport/rest"
	"github.com/frahmantamala/payroll-management/internal/transport/swagger"
	"github.com/frahmantamala/payroll-management/internal/user"
	userPostgres "github.com/frahmantamala/payroll-management/internal/user/postgres"
	"github.com/frahmantamala/payroll-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const serviceName = "payroll-management"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Events *events.EventBus
	Logger *slog.Logger

	shutdown []func(context.Context) error
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.Env)
		serverErrChan <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Close()
	deps.Logger.Info("server stopped")
	return runErr
}

// Close drains in-flight ledger events and releases every resource in reverse order.
func (d *Dependencies) Close() {
	d.Events.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(d.shutdown) - 1; i >= 0; i-- {
		if err := d.shutdown[i](ctx); err != nil {
			d.Logger.Error("shutdown step failed", "error", err)
		}
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Setup(cfg.Env, logger.Options{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	}).With("service", serviceName)

	deps := &Dependencies{Config: cfg, Logger: lg, Router: chi.NewRouter()}

	shutdownTracing, err := tracing.Init(ctx, lg, cfg.Observability.Tracing, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	deps.shutdown = append(deps.shutdown, shutdownTracing)

	deps.DB, err = initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.shutdown = append(deps.shutdown, func(context.Context) error { return deps.DB.Close() })

	deps.Gorm, err = store.OpenGorm(deps.DB.DB)
	if err != nil {
		return nil, err
	}

	rateCache, checks, err := initRateCache(ctx, cfg.Currency, lg, deps)
	if err != nil {
		return nil, err
	}
	checks["database"] = deps.DB.PingContext

	if _, err := swagger.Load(ctx, api.OpenAPI); err != nil {
		return nil, err
	}

	deps.Events = events.NewEventBus(lg)
	payment.NewEventHandler(lg).RegisterEventHandlers(deps.Events)

	hasher := auth.NewBcryptHasher(cfg.Security.BCryptCost)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)

	tenants := company.NewService(companyPostgres.NewCompanyRepository(deps.Gorm), lg)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, hasher, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), hasher, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.Gorm), lg)
	paymentService := payment.NewService(paymentPostgres.NewPaymentRepository(deps.Gorm), deps.Events, lg)
	settingService := setting.NewService(settingPostgres.NewSettingRepository(deps.DB), lg)
	currencyService := currency.NewService(currency.NewClient(currency.ClientConfig{
		APIURL:  cfg.Currency.APIURL,
		APIKey:  cfg.Currency.APIKey,
		Timeout: cfg.Currency.Timeout,
	}, lg), rateCache, lg)

	rest.RegisterAllRoutes(deps.Router, rest.Options{
		ServiceName:  cfg.Observability.Tracing.ServiceName,
		QueryTimeout: cfg.Database.QueryTimeout,
		Server:       cfg.Server,
		RateLimit:    cfg.RateLimit,
		Metrics:      cfg.Observability.Metrics,
		Tracing:      cfg.Observability.Tracing,
		OpenAPI:      api.OpenAPI,
	}, rest.Handlers{
		Health:   rest.NewHealthHandler(serviceName, checks),
		Auth:     auth.NewHandler(authService, lg),
		User:     user.NewHandler(userService, lg),
		Company:  company.NewHandler(tenants, lg),
		Employee: employee.NewHandler(employeeService, tenants, lg),
		Payment:  payment.NewHandler(paymentService, tenants, lg),
		Setting:  setting.NewHandler(settingService, lg),
		Currency: currency.NewHandler(currencyService, lg),
	})

	return deps, nil
}

// initRateCache picks Redis when a URL is configured, the in-process cache otherwise.
func initRateCache(ctx context.Context, cfg internal.CurrencyConfig, lg *slog.Logger, deps *Dependencies) (currency.RateCache, map[string]rest.CheckFunc, error) {
	checks := map[string]rest.CheckFunc{}
	if cfg.RedisURL == "" {
		lg.Info("currency rate cache: in-memory", "ttl", cfg.CacheTTL.String())
		return currency.NewMemoryRateCache(cfg.CacheTTL), checks, nil
	}

	rc, err := currency.NewRedisRateCache(ctx, cfg.RedisURL, cfg.CacheTTL, lg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	deps.shutdown = append(deps.shutdown, func(context.Context) error { return rc.Close() })
	checks["redis"] = rc.Ping
	return rc, checks, nil
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}
