package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/company"
	companyPostgres "github.com/frahmantamala/payroll-management/internal/company/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/store/storetest"
	"github.com/frahmantamala/payroll-management/internal/payment"
	paymentPostgres "github.com/frahmantamala/payroll-management/internal/payment/postgres"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Payment Handler Integration", func() {
	var (
		db         *gorm.DB
		router     *chi.Mux
		user       *internal.User
		outside    *internal.User
		employeeID int64
	)

	do := func(u *internal.User, method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req = req.WithContext(internal.ContextWithUser(req.Context(), u))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) *payment.Payment {
		var p payment.Payment
		Expect(json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed())
		return &p
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		lg := logger.Discard()
		tenants := company.NewService(companyPostgres.NewCompanyRepository(db), lg)
		service := payment.NewService(paymentPostgres.NewPaymentRepository(db), nil, lg)
		handler := payment.NewHandler(service, tenants, lg)

		router = chi.NewRouter()
		router.Get("/payments", handler.ListPayments)
		router.Post("/payments", handler.CreatePayment)
		router.Get("/payments/{id}", handler.GetPayment)
		router.Put("/payments/{id}", handler.UpdatePayment)
		router.Delete("/payments/{id}", handler.DeletePayment)

		uid, err := storetest.SeedUser(db, "owner@example.com", nil)
		Expect(err).NotTo(HaveOccurred())
		user = &internal.User{ID: uid, Email: "owner@example.com", FirstName: "Owner", LastName: "One"}
		tenantID, err := tenants.EnsureTenant(context.Background(), user)
		Expect(err).NotTo(HaveOccurred())
		employeeID, err = storetest.SeedEmployee(db, tenantID, "Alice")
		Expect(err).NotTo(HaveOccurred())

		oid, err := storetest.SeedUser(db, "other@example.com", nil)
		Expect(err).NotTo(HaveOccurred())
		outside = &internal.User{ID: oid, Email: "other@example.com", FirstName: "Other", LastName: "Two"}
		_, err = tenants.EnsureTenant(context.Background(), outside)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	create := func(u *internal.User, date string) *httptest.ResponseRecorder {
		return do(u, http.MethodPost, "/payments", map[string]interface{}{
			"employee_id":  employeeID,
			"amount_local": 650000,
			"amount_usd":   1000,
			"date":         date,
		})
	}

	It("records a payment with a generated reference", func() {
		w := create(user, "2024-04-30")
		Expect(w.Code).To(Equal(http.StatusCreated))

		p := decode(w)
		Expect(p.Reference).To(Equal("PAY-2024-001"))
		Expect(p.Status).To(Equal("paid"))
		Expect(p.AmountUSD).To(Equal(1000.0))
		Expect(*p.EmployeeName).To(Equal("Alice"))

		Expect(decode(create(user, "2024-05-31")).Reference).To(Equal("PAY-2024-002"))
	})

	It("does not let another tenant pay the employee", func() {
		w := create(outside, "2024-04-30")
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]).To(Equal("Employee not found or not accessible"))
	})

	It("rejects an invalid body before touching the store", func() {
		w := do(user, http.MethodPost, "/payments", map[string]interface{}{
			"employee_id": employeeID,
			"amount_usd":  10,
			"date":        "2024-04-30",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("amount_local is required"))
	})

	It("rejects malformed JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString("{"))
		req = req.WithContext(internal.ContextWithUser(req.Context(), user))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	Context("with a recorded payment", func() {
		var p *payment.Payment

		BeforeEach(func() {
			w := create(user, "2024-04-30")
			Expect(w.Code).To(Equal(http.StatusCreated))
			p = decode(w)
		})

		path := func() string { return "/payments/" + strconv.FormatInt(p.ID, 10) }

		It("lists and searches it", func() {
			w := do(user, http.MethodGet, "/payments?search=alice", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			var list []payment.Payment
			Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
			Expect(list).To(HaveLen(1))

			w = do(user, http.MethodGet, "/payments?search=nobody", nil)
			Expect(w.Body.String()).To(MatchJSON(`[]`))

			w = do(outside, http.MethodGet, "/payments", nil)
			Expect(w.Body.String()).To(MatchJSON(`[]`))
		})

		It("updates it without changing the reference", func() {
			w := do(user, http.MethodPut, path(), map[string]interface{}{"status": "reversed", "date": "2024-05-01"})
			Expect(w.Code).To(Equal(http.StatusOK))
			got := decode(w)
			Expect(got.Status).To(Equal("reversed"))
			Expect(got.Reference).To(Equal(p.Reference))
			Expect(got.Date.Format("2006-01-02")).To(Equal("2024-05-01"))
		})

		It("keeps it isolated from other tenants", func() {
			Expect(do(outside, http.MethodGet, path(), nil).Code).To(Equal(http.StatusNotFound))
			Expect(do(outside, http.MethodPut, path(), map[string]string{"status": "void"}).Code).To(Equal(http.StatusNotFound))
			Expect(do(outside, http.MethodDelete, path(), nil).Code).To(Equal(http.StatusNotFound))

			got := decode(do(user, http.MethodGet, path(), nil))
			Expect(got.Status).To(Equal("paid"))
		})

		It("deletes it", func() {
			w := do(user, http.MethodDelete, path(), nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success": true}`))
			Expect(do(user, http.MethodGet, path(), nil).Code).To(Equal(http.StatusNotFound))
		})
	})
})
