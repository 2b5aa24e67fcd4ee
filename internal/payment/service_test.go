package payment_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/payment"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

func TestPayment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Suite")
}

// Mock repository for testing
type mockPaymentRepository struct {
	mu        sync.Mutex
	payments  map[int64]*payment.Payment
	employees map[int64]int64 // employee id -> company id
	nextID    int64

	// conflicts makes the next n inserts fail as if another writer took the reference.
	conflicts   int
	createError error
	maxSeqError error
	createCalls int
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{
		payments:  make(map[int64]*payment.Payment),
		employees: make(map[int64]int64),
	}
}

func (m *mockPaymentRepository) companyOf(p *payment.Payment) int64 {
	return m.employees[p.EmployeeID]
}

func (m *mockPaymentRepository) List(ctx context.Context, companyID int64, search string) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*payment.Payment
	for _, p := range m.payments {
		if m.companyOf(p) == companyID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, companyID, id int64) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || m.companyOf(p) != companyID {
		return nil, internal.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepository) EmployeeInTenant(ctx context.Context, companyID, employeeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.employees[employeeID]
	return ok && c == companyID, nil
}

func (m *mockPaymentRepository) MaxReferenceSequence(ctx context.Context, year int) (int, error) {
	if m.maxSeqError != nil {
		return 0, m.maxSeqError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := payment.ReferencePrefix(year)
	maxSeq := 0
	for _, p := range m.payments {
		if !strings.HasPrefix(p.Reference, prefix) {
			continue
		}
		if seq, err := strconv.Atoi(strings.TrimPrefix(p.Reference, prefix)); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createError != nil {
		return m.createError
	}
	if m.conflicts > 0 {
		m.conflicts--
		return payment.ErrDuplicateReference
	}
	for _, existing := range m.payments {
		if existing.Reference == p.Reference {
			return payment.ErrDuplicateReference
		}
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now().UTC()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, companyID, id int64, changes map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || m.companyOf(p) != companyID {
		return internal.ErrPaymentNotFound
	}
	for k, v := range changes {
		switch k {
		case "amount_local":
			p.AmountLocal = v.(float64)
		case "amount_usd":
			p.AmountUSD = v.(float64)
		case "date":
			p.Date = v.(time.Time)
		case "status":
			p.Status = v.(string)
		}
	}
	return nil
}

func (m *mockPaymentRepository) Delete(ctx context.Context, companyID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || m.companyOf(p) != companyID {
		return internal.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

var _ = Describe("Payment Service", func() {
	const (
		tenantA   int64 = 1
		tenantB   int64 = 2
		employeeA int64 = 10
		employeeB int64 = 20
	)

	var (
		repo      *mockPaymentRepository
		publisher *recordingPublisher
		service   *payment.Service
		ctx       context.Context
	)

	validDTO := func() payment.CreatePaymentDTO {
		return payment.CreatePaymentDTO{
			EmployeeID:  employeeA,
			AmountLocal: f(500000),
			AmountUSD:   f(800),
			Date:        "2024-03-15",
		}
	}

	BeforeEach(func() {
		repo = newMockPaymentRepository()
		repo.employees[employeeA] = tenantA
		repo.employees[employeeB] = tenantB
		publisher = &recordingPublisher{}
		service = payment.NewService(repo, publisher, logger.Discard())
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("allocates sequential references within a year", func() {
			first, err := service.Create(ctx, tenantA, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Reference).To(Equal("PAY-2024-001"))
			Expect(first.Status).To(Equal(payment.DefaultStatus))

			second, err := service.Create(ctx, tenantA, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Reference).To(Equal("PAY-2024-002"))

			dto := validDTO()
			dto.Date = "2025-01-02"
			other, err := service.Create(ctx, tenantA, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Reference).To(Equal("PAY-2025-001"))

			Expect(publisher.types()).To(Equal([]string{
				events.EventTypePaymentRecorded,
				events.EventTypePaymentRecorded,
				events.EventTypePaymentRecorded,
			}))
		})

		It("keeps an explicit status", func() {
			dto := validDTO()
			dto.Status = s("pending")
			p, err := service.Create(ctx, tenantA, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal("pending"))
		})

		It("accepts zero amounts", func() {
			dto := validDTO()
			dto.AmountLocal = f(0)
			dto.AmountUSD = f(0)
			_, err := service.Create(ctx, tenantA, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("retries when the reference was taken concurrently", func() {
			repo.conflicts = 2
			p, err := service.Create(ctx, tenantA, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Reference).To(Equal("PAY-2024-001"))
			Expect(repo.createCalls).To(Equal(3))
		})

		It("gives up with a conflict after the attempt budget", func() {
			repo.conflicts = payment.MaxReferenceAttempts
			_, err := service.Create(ctx, tenantA, validDTO())
			Expect(err).To(Equal(internal.ErrReferenceAllocation))
			Expect(repo.createCalls).To(Equal(payment.MaxReferenceAttempts))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
			Expect(publisher.types()).To(BeEmpty())
		})

		It("aborts on a store error that is not a reference conflict", func() {
			repo.createError = errors.New("connection reset")
			_, err := service.Create(ctx, tenantA, validDTO())
			Expect(repo.createCalls).To(Equal(1))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePersistence))
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("rejects an employee from another tenant", func() {
			dto := validDTO()
			dto.EmployeeID = employeeB
			_, err := service.Create(ctx, tenantA, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(appErr.Message).To(Equal("Employee not found or not accessible"))
			Expect(repo.createCalls).To(Equal(0))
		})

		It("rejects a caller without a company", func() {
			_, err := service.Create(ctx, 0, validDTO())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		})

		DescribeTable("validation",
			func(mutate func(*payment.CreatePaymentDTO), field string) {
				dto := validDTO()
				mutate(&dto)
				_, err := service.Create(ctx, tenantA, dto)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(appErr.GetDetailedMessage()).To(ContainSubstring(field))
				Expect(repo.createCalls).To(Equal(0))
			},
			Entry("missing employee", func(d *payment.CreatePaymentDTO) { d.EmployeeID = 0 }, "employee_id"),
			Entry("missing local amount", func(d *payment.CreatePaymentDTO) { d.AmountLocal = nil }, "amount_local"),
			Entry("negative usd amount", func(d *payment.CreatePaymentDTO) { d.AmountUSD = f(-1) }, "amount_usd"),
			Entry("missing date", func(d *payment.CreatePaymentDTO) { d.Date = "" }, "date"),
			Entry("malformed date", func(d *payment.CreatePaymentDTO) { d.Date = "15/03/2024" }, "date"),
		)
	})

	Describe("Update", func() {
		var created *payment.Payment

		BeforeEach(func() {
			var err error
			created, err = service.Create(ctx, tenantA, validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("coalesces provided fields and keeps the reference", func() {
			updated, err := service.Update(ctx, tenantA, created.ID, payment.UpdatePaymentDTO{
				AmountUSD: f(900),
				Status:    s("reversed"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AmountUSD).To(Equal(900.0))
			Expect(updated.AmountLocal).To(Equal(500000.0))
			Expect(updated.Status).To(Equal("reversed"))
			Expect(updated.Reference).To(Equal(created.Reference))
			Expect(publisher.types()).To(ContainElement(events.EventTypePaymentUpdated))
		})

		It("treats an empty update as a lookup", func() {
			got, err := service.Update(ctx, tenantA, created.ID, payment.UpdatePaymentDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(created.ID))
			Expect(publisher.types()).NotTo(ContainElement(events.EventTypePaymentUpdated))
		})

		It("does not touch another tenant's payment", func() {
			_, err := service.Update(ctx, tenantB, created.ID, payment.UpdatePaymentDTO{AmountUSD: f(1)})
			Expect(err).To(Equal(internal.ErrPaymentNotFound))

			got, err := service.Get(ctx, tenantA, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.AmountUSD).To(Equal(800.0))
		})
	})

	Describe("Delete", func() {
		It("removes the payment and publishes", func() {
			created, err := service.Create(ctx, tenantA, validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, tenantA, created.ID)).To(Succeed())
			_, err = service.Get(ctx, tenantA, created.ID)
			Expect(err).To(Equal(internal.ErrPaymentNotFound))
			Expect(publisher.types()).To(ContainElement(events.EventTypePaymentDeleted))
		})

		It("reports not found across tenants", func() {
			created, err := service.Create(ctx, tenantA, validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, tenantB, created.ID)).To(Equal(internal.ErrPaymentNotFound))
			_, err = service.Get(ctx, tenantA, created.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	It("lists nothing for a caller without a company", func() {
		list, err := service.List(ctx, 0, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})
})
