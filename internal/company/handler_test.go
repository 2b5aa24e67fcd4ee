package company_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/company"
	"github.com/frahmantamala/payroll-management/internal/company/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/store/storetest"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Handler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		user   *internal.User
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		userID, err := storetest.SeedUser(db, "bola@example.com", nil)
		Expect(err).NotTo(HaveOccurred())
		user = &internal.User{ID: userID, Email: "bola@example.com", FirstName: "Bola", LastName: "Ade"}

		h := company.NewHandler(company.NewService(postgres.NewCompanyRepository(db), logger.Discard()), logger.Discard())
		router = chi.NewRouter()
		router.Get("/companies", h.GetMine)
		router.Post("/companies", h.CreateCompany)
		router.Get("/companies/{id}", h.GetCompany)
		router.Put("/companies/{id}", h.UpdateCompany)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(internal.ContextWithUser(req.Context(), user))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("lists nothing before a company exists", func() {
		w := do(http.MethodGet, "/companies", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("creates a company once and then reports a conflict", func() {
		w := do(http.MethodPost, "/companies", `{"name": "  Ade Foods ", "email": "hello@adefoods.test"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created company.Company
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created.Name).To(Equal("Ade Foods"))

		w = do(http.MethodGet, fmt.Sprintf("/companies/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPost, "/companies", `{"name": "Second"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeCompanyExists)))
	})

	It("rejects a missing name", func() {
		w := do(http.MethodPost, "/companies", `{"name": "   "}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("name is required"))
	})

	It("forbids reading or updating another company", func() {
		otherID, err := storetest.SeedCompany(db, "Someone Else")
		Expect(err).NotTo(HaveOccurred())

		w := do(http.MethodGet, fmt.Sprintf("/companies/%d", otherID), "")
		Expect(w.Code).To(Equal(http.StatusForbidden))

		w = do(http.MethodPut, fmt.Sprintf("/companies/%d", otherID), `{"name": "Mine now"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("rejects a malformed id", func() {
		w := do(http.MethodGet, "/companies/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
