package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/auth"
	authPostgres "github.com/frahmantamala/payroll-management/internal/auth/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"github.com/frahmantamala/payroll-management/internal/employee"
	employeePostgres "github.com/frahmantamala/payroll-management/internal/employee/postgres"
	"github.com/frahmantamala/payroll-management/internal/payment"
	paymentPostgres "github.com/frahmantamala/payroll-management/internal/payment/postgres"
	"github.com/frahmantamala/payroll-management/internal/setting"
	settingPostgres "github.com/frahmantamala/payroll-management/internal/setting/postgres"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	seedEmail    = "demo@payroll.local"
	seedPassword = "password"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed a demo user, company, employees and payments for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(context.Background())
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

type seedEmployee struct {
	name, email, position, contract, startDate string
	salaryLocal, salaryUSD                     float64
}

var seedEmployees = []seedEmployee{
	{"Alice Ndiaye", "alice@demo.local", "Engineer", "full-time", "2023-01-09", 500000, 850},
	{"Moussa Sow", "moussa@demo.local", "Accountant", "full-time", "2023-06-01", 420000, 700},
	{"Fatou Ba", "fatou@demo.local", "Designer", "contractor", "2024-02-15", 300000, 500},
}

var seedPaymentDates = []string{"2024-01-31", "2024-02-29", "2024-03-31"}

func runSeed(ctx context.Context) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.Setup(cfg.Env, logger.Options{Level: cfg.Observability.Logging.Level, Format: cfg.Observability.Logging.Format})

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	gdb, err := store.OpenGorm(db.DB)
	if err != nil {
		return err
	}

	if clearData {
		if _, err := db.ExecContext(ctx, "TRUNCATE payments, employees, users, companies, settings RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
		lg.Info("cleared existing data")
	}

	authService := auth.NewService(authPostgres.NewRepository(gdb),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		auth.NewBcryptHasher(cfg.Security.BCryptCost), lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(gdb), lg)
	paymentService := payment.NewService(paymentPostgres.NewPaymentRepository(gdb), nil, lg)
	settingService := setting.NewService(settingPostgres.NewSettingRepository(db), lg)

	companyName := "Demo Company"
	resp, err := authService.Register(ctx, auth.RegisterDTO{
		FirstName:   "Demo",
		LastName:    "Owner",
		Email:       seedEmail,
		Password:    seedPassword,
		CompanyName: &companyName,
	})
	if errors.Is(err, internal.ErrEmailTaken) {
		lg.Info("demo user already exists; reusing it", "email", seedEmail)
		resp, err = authService.Login(ctx, auth.LoginDTO{Email: seedEmail, Password: seedPassword})
	}
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	tenantID := resp.User.Principal().TenantID()
	if tenantID == 0 {
		return fmt.Errorf("demo user %s has no company", seedEmail)
	}

	existing, err := employeeService.List(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		lg.Info("employees already seeded", "count", len(existing))
		return nil
	}

	for _, se := range seedEmployees {
		emp, err := employeeService.Create(ctx, tenantID, employee.CreateEmployeeDTO{
			Name:        se.name,
			Email:       &se.email,
			Position:    se.position,
			Contract:    se.contract,
			StartDate:   &se.startDate,
			SalaryLocal: &se.salaryLocal,
			SalaryUSD:   &se.salaryUSD,
		})
		if err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", se.name, err)
		}

		for _, date := range seedPaymentDates {
			p, err := paymentService.Create(ctx, tenantID, payment.CreatePaymentDTO{
				EmployeeID:  emp.ID,
				AmountLocal: &se.salaryLocal,
				AmountUSD:   &se.salaryUSD,
				Date:        date,
			})
			if err != nil {
				return fmt.Errorf("failed to seed payment for %s: %w", se.name, err)
			}
			lg.Debug("seeded payment", "reference", p.Reference, "employee", se.name)
		}
	}

	if _, err := settingService.SetExchangeRate(ctx, setting.SetExchangeRateDTO{Value: []byte(`600`)}); err != nil {
		return fmt.Errorf("failed to seed exchange rate: %w", err)
	}

	lg.Info("seed complete", "email", seedEmail, "company_id", tenantID, "employees", len(seedEmployees))
	return nil
}
