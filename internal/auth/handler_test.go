package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/auth"
	"github.com/frahmantamala/payroll-management/internal/auth/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/store/storetest"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("Auth Handler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	post := func(path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, &buf))
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		lg := logger.Discard()
		svc := auth.NewService(postgres.NewRepository(db), auth.NewJWTTokenGenerator("s", time.Hour), auth.NewBcryptHasher(bcrypt.MinCost), lg)
		h := auth.NewHandler(svc, lg)

		router = chi.NewRouter()
		router.Post("/auth/register", h.Register)
		router.Post("/auth/login", h.Login)
		router.With(h.AuthMiddleware).Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			u, _ := internal.UserFromContext(r.Context())
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": u.ID, "email": u.Email})
		})
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("registers, logs in and authenticates a request", func() {
		w := post("/auth/register", map[string]string{
			"first_name": "Awa", "last_name": "Diop", "email": "awa@example.com", "password": "pw123456",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("password_hash"))

		w = post("/auth/login", map[string]string{"email": "awa@example.com", "password": "pw123456"})
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Token string `json:"token"`
			User  struct {
				ID    int64  `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"id": ` + jsonInt(resp.User.ID) + `, "email": "awa@example.com"}`))
	})

	It("answers 409 for a duplicate registration", func() {
		body := map[string]string{"first_name": "A", "last_name": "B", "email": "dup@example.com", "password": "pw"}
		Expect(post("/auth/register", body).Code).To(Equal(http.StatusCreated))
		Expect(post("/auth/register", body).Code).To(Equal(http.StatusConflict))
	})

	It("answers 401 for bad credentials", func() {
		w := post("/auth/login", map[string]string{"email": "nobody@example.com", "password": "x"})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("Invalid credentials"))
	})

	DescribeTable("rejects requests without a usable token",
		func(header string) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		},
		Entry("missing header", ""),
		Entry("wrong scheme", "Basic abc"),
		Entry("garbage token", "Bearer not.a.jwt"),
	)
})

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
