package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/payroll-management/api"
	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/auth"
	authPostgres "github.com/frahmantamala/payroll-management/internal/auth/postgres"
	"github.com/frahmantamala/payroll-management/internal/company"
	companyPostgres "github.com/frahmantamala/payroll-management/internal/company/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/store/storetest"
	"github.com/frahmantamala/payroll-management/internal/employee"
	employeePostgres "github.com/frahmantamala/payroll-management/internal/employee/postgres"
	"github.com/frahmantamala/payroll-management/internal/payment"
	paymentPostgres "github.com/frahmantamala/payroll-management/internal/payment/postgres"
	"github.com/frahmantamala/payroll-management/internal/transport/rest"
	"github.com/frahmantamala/payroll-management/internal/transport/swagger"
	"github.com/frahmantamala/payroll-management/internal/user"
	userPostgres "github.com/frahmantamala/payroll-management/internal/user/postgres"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		dbErr  error
	)

	call := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())
		dbErr = nil

		lg := logger.Discard()
		hasher := auth.NewBcryptHasher(bcrypt.MinCost)
		tenants := company.NewService(companyPostgres.NewCompanyRepository(db), lg)
		authService := auth.NewService(authPostgres.NewRepository(db), auth.NewJWTTokenGenerator("router-test-secret", time.Hour), hasher, lg)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Options{
			ServiceName: "payroll-management",
			Server:      internal.ServerConfig{AllowedOrigins: "*", MaxBodyBytes: 1 << 20},
			Metrics:     internal.MetricsConfig{Enabled: true, Path: "/metrics"},
			OpenAPI:     api.OpenAPI,
		}, rest.Handlers{
			Health: rest.NewHealthHandler("payroll-management", map[string]rest.CheckFunc{
				"database": func(context.Context) error { return dbErr },
			}),
			Auth:     auth.NewHandler(authService, lg),
			User:     user.NewHandler(user.NewService(userPostgres.NewUserRepository(db), hasher, lg), lg),
			Company:  company.NewHandler(tenants, lg),
			Employee: employee.NewHandler(employee.NewService(employeePostgres.NewEmployeeRepository(db), lg), tenants, lg),
			Payment:  payment.NewHandler(payment.NewService(paymentPostgres.NewPaymentRepository(db), nil, lg), tenants, lg),
		})
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("reports health and flips to 503 when a dependency fails", func() {
		w := call(http.MethodGet, "/api/health", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var health rest.HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &health)).To(Succeed())
		Expect(health.Status).To(Equal(rest.HealthHealthy))
		Expect(health.Service).To(Equal("payroll-management"))
		Expect(health.Components).To(HaveKey("database"))

		dbErr = errors.New("connection refused")
		w = call(http.MethodGet, "/api/health", "", nil)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.String()).To(ContainSubstring("connection refused"))
	})

	It("answers unknown routes with a JSON 404", func() {
		w := call(http.MethodGet, "/api/nope", "", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring(`"error":"Not Found"`))
	})

	It("guards the ledger behind a bearer token", func() {
		Expect(call(http.MethodGet, "/api/payments", "", nil).Code).To(Equal(http.StatusUnauthorized))
		Expect(call(http.MethodGet, "/api/employees", "not-a-token", nil).Code).To(Equal(http.StatusUnauthorized))
	})

	It("runs the payroll flow from registration to a searchable payment", func() {
		w := call(http.MethodPost, "/api/auth/register", "", map[string]string{
			"first_name": "Awa", "last_name": "Diop", "email": "awa@example.com", "password": "pw123456",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var reg struct {
			Token string `json:"token"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &reg)).To(Succeed())
		Expect(w.Header().Get("X-Trace-ID")).NotTo(BeEmpty())

		Expect(call(http.MethodGet, "/api/companies", reg.Token, nil).Body.String()).To(MatchJSON(`[]`))

		w = call(http.MethodPost, "/api/employees", reg.Token, map[string]interface{}{
			"name": "Alice", "position": "Engineer", "contract": "full-time",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var emp employee.Employee
		Expect(json.Unmarshal(w.Body.Bytes(), &emp)).To(Succeed())

		var companies []company.Company
		Expect(json.Unmarshal(call(http.MethodGet, "/api/companies", reg.Token, nil).Body.Bytes(), &companies)).To(Succeed())
		Expect(companies).To(HaveLen(1))
		Expect(companies[0].Name).To(Equal("Company of Awa Diop"))

		for _, want := range []string{"PAY-2024-001", "PAY-2024-002"} {
			w = call(http.MethodPost, "/api/payments", reg.Token, map[string]interface{}{
				"employee_id": emp.ID, "amount_local": 500000, "amount_usd": 850, "date": "2024-03-01",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))
			var p payment.Payment
			Expect(json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed())
			Expect(p.Reference).To(Equal(want))
		}

		var found []payment.Payment
		w = call(http.MethodGet, "/api/payments?search=PAY-2024-001", reg.Token, nil)
		Expect(json.Unmarshal(w.Body.Bytes(), &found)).To(Succeed())
		Expect(found).To(HaveLen(1))
		Expect(found[0].Reference).To(Equal("PAY-2024-001"))

		w = call(http.MethodGet, "/api/auth/me", reg.Token, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"company_id":`))
	})

	It("serves a valid OpenAPI document and exposes metrics", func() {
		_, err := swagger.Load(context.Background(), api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())

		w := call(http.MethodGet, "/openapi.yml", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("/payments/{id}"))

		w = call(http.MethodGet, "/metrics", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("payroll_http_requests_total"))
	})
})
