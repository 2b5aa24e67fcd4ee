package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport/middleware"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("mints a trace id when the caller sends none", func() {
		var seen string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = w.Header().Get(middleware.TraceIDHeader)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get(middleware.TraceIDHeader)).To(HaveLen(36))
		Expect(seen).To(Equal(w.Header().Get(middleware.TraceIDHeader)))
	})

	It("propagates the caller's trace id into the logger", func() {
		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))

		h := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Info("hello")
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceIDHeader, "abc-123")
		req = req.WithContext(withLogger(req, base))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		Expect(w.Header().Get(middleware.TraceIDHeader)).To(Equal("abc-123"))
		Expect(buf.String()).To(ContainSubstring(`"trace_id":"abc-123"`))
	})
})

var _ = Describe("Recovery", func() {
	It("answers 500 without leaking the panic value", func() {
		h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("db password is hunter2")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withLogger(req, logger.Discard()))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("hunter2"))

		var body internal.Response
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error).To(Equal("Internal server error"))
		Expect(body.Code).To(Equal(internal.ErrCodeInternal))
	})
})

var _ = Describe("Logging", func() {
	var buf *bytes.Buffer

	serve := func(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
		req = req.WithContext(withLogger(req, slog.New(slog.NewJSONHandler(buf, nil))))
		w := httptest.NewRecorder()
		middleware.Logging(h).ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("masks credentials but still hands the full body to the handler", func() {
		var got []byte
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"eyJhbGci","user":{"email":"a@b.co"}}`))
		})

		body := `{"email":"a@b.co","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer abc")
		w := serve(h, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(string(got)).To(Equal(body))
		Expect(buf.String()).NotTo(ContainSubstring("s3cret-pass"))
		Expect(buf.String()).NotTo(ContainSubstring("eyJhbGci"))
		Expect(buf.String()).NotTo(ContainSubstring("Bearer abc"))
		Expect(buf.String()).To(ContainSubstring(`"status_code":201`))
	})

	It("stays quiet for health and metrics scrapes", func() {
		serve(ok, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		serve(ok, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		Expect(buf.Len()).To(BeZero())
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight for an allowed origin", func() {
		h := middleware.CORS([]string{"https://app.example.com"})(ok)
		req := httptest.NewRequest(http.MethodOptions, "/api/payments", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PUT"))
	})

	It("does not echo an unknown origin", func() {
		h := middleware.CORS([]string{"https://app.example.com"})(ok)
		req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("allows any origin with a wildcard", func() {
		h := middleware.CORS([]string{"*"})(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
	})
})

var _ = Describe("SecurityHeaders", func() {
	It("sets the configured headers", func() {
		cfg := internal.SecurityHeadersConfig{
			Enabled:            true,
			CSP:                "default-src 'self'",
			HSTSMaxAge:         31536000,
			FrameOptions:       "DENY",
			ContentTypeOptions: "nosniff",
			ReferrerPolicy:     "no-referrer",
		}
		w := httptest.NewRecorder()
		middleware.SecurityHeaders(cfg)(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Header().Get("Content-Security-Policy")).To(Equal("default-src 'self'"))
		Expect(w.Header().Get("Strict-Transport-Security")).To(Equal("max-age=31536000; includeSubDomains"))
		Expect(w.Header().Get("X-Frame-Options")).To(Equal("DENY"))
		Expect(w.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"))
		Expect(w.Header().Get("Referrer-Policy")).To(Equal("no-referrer"))
	})

	It("does nothing when disabled", func() {
		cfg := internal.SecurityHeadersConfig{CSP: "default-src 'self'"}
		w := httptest.NewRecorder()
		middleware.SecurityHeaders(cfg)(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get("Content-Security-Policy")).To(BeEmpty())
	})
})

var _ = Describe("RateLimit", func() {
	It("rejects requests past the limit with 429", func() {
		h := middleware.RateLimit(internal.RateLimitConfig{Enabled: true, AuthRequests: 2, AuthWindow: time.Minute})(ok)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			req = req.WithContext(withLogger(req, logger.Discard()))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			codes = append(codes, w.Code)
			if w.Code == http.StatusTooManyRequests {
				Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeRateLimited)))
			}
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))
	})

	It("passes everything through when disabled", func() {
		h := middleware.RateLimit(internal.RateLimitConfig{AuthRequests: 1, AuthWindow: time.Minute})(ok)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
		}
	})
})

var _ = Describe("BodyLimit", func() {
	It("fails reads past the limit", func() {
		var readErr error
		h := middleware.BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789abcdef")))

		var maxErr *http.MaxBytesError
		Expect(readErr).To(BeAssignableToTypeOf(maxErr))
	})
})

var _ = Describe("Timeout", func() {
	It("puts a deadline on the request context", func() {
		var deadline time.Time
		var has bool
		h := middleware.Timeout(50 * time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			deadline, has = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(has).To(BeTrue())
		Expect(deadline).To(BeTemporally("~", time.Now(), time.Second))
	})
})
