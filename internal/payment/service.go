package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/observability/metrics"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

// RepositoryAPI is the ledger's view of the store. Reads and writes are scoped to a
// company through the payment's employee.
type RepositoryAPI interface {
	List(ctx context.Context, companyID int64, search string) ([]*Payment, error)
	GetByID(ctx context.Context, companyID, id int64) (*Payment, error)
	EmployeeInTenant(ctx context.Context, companyID, employeeID int64) (bool, error)
	// MaxReferenceSequence returns the highest numeric suffix issued for year, or 0.
	MaxReferenceSequence(ctx context.Context, year int) (int, error)
	// Create returns ErrDuplicateReference when p.Reference is already taken.
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, companyID, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, companyID, id int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher EventPublisher, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{repo: repo, publisher: publisher, logger: lg}
}

// List returns the tenant's payments, optionally filtered by a case-insensitive search over
// employee name, email, phone and the payment reference.
func (s *Service) List(ctx context.Context, tenantID int64, search string) ([]*Payment, error) {
	if tenantID == 0 {
		return []*Payment{}, nil
	}
	payments, err := s.repo.List(ctx, tenantID, search)
	if err != nil {
		s.logger.Error("failed to list payments", "company_id", tenantID, "error", err)
		return nil, persistence("failed to list payments", err)
	}
	return payments, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Payment, error) {
	if tenantID == 0 {
		return nil, internal.ErrPaymentNotFound
	}
	p, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, persistence("failed to load payment", err)
	}
	return p, nil
}

// Create records a payment under a freshly allocated reference.
//
// The next sequence for the payment's year is derived from the current maximum and
// claimed by inserting under the unique constraint on reference. Losing a race to a
// concurrent insert is retried up to MaxReferenceAttempts times before giving up with
// a conflict; any other store error aborts immediately.
func (s *Service) Create(ctx context.Context, tenantID int64, dto CreatePaymentDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if tenantID == 0 {
		return nil, notAccessible()
	}

	ok, err := s.repo.EmployeeInTenant(ctx, tenantID, dto.EmployeeID)
	if err != nil {
		return nil, persistence("failed to verify employee", err)
	}
	if !ok {
		return nil, notAccessible()
	}

	date := dto.ParsedDate()
	year := date.Year()
	lg := logger.From(ctx).With("company_id", tenantID, "employee_id", dto.EmployeeID, "year", year)

	for attempt := 1; attempt <= MaxReferenceAttempts; attempt++ {
		maxSeq, err := s.repo.MaxReferenceSequence(ctx, year)
		if err != nil {
			return nil, persistence("failed to read payment sequence", err)
		}

		p := &Payment{
			EmployeeID:  dto.EmployeeID,
			AmountLocal: *dto.AmountLocal,
			AmountUSD:   *dto.AmountUSD,
			Date:        date,
			Status:      dto.StatusOrDefault(),
			Reference:   FormatReference(year, maxSeq+1),
		}

		err = s.repo.Create(ctx, p)
		if errors.Is(err, ErrDuplicateReference) {
			metrics.ObserveReferenceAttempt(metrics.ReferenceConflict)
			lg.Warn("payment reference taken, retrying", "reference", p.Reference, "attempt", attempt)
			continue
		}
		if err != nil {
			lg.Error("failed to insert payment", "reference", p.Reference, "error", err)
			return nil, persistence("failed to create payment", err)
		}

		metrics.ObserveReferenceAttempt(metrics.ReferenceAllocated)
		lg.Info("payment recorded", "payment_id", p.ID, "reference", p.Reference, "attempt", attempt)

		created, err := s.repo.GetByID(ctx, tenantID, p.ID)
		if err != nil {
			return nil, persistence("failed to load created payment", err)
		}
		s.publish(ctx, events.NewPaymentRecordedEvent(created.ID, tenantID, created.EmployeeID, created.Reference, created.AmountLocal, created.AmountUSD, created.Status))
		return created, nil
	}

	metrics.ObserveReferenceAttempt(metrics.ReferenceExhausted)
	lg.Error("payment reference allocation exhausted", "attempts", MaxReferenceAttempts)
	return nil, internal.ErrReferenceAllocation
}

// Update coalesces the provided fields into the payment. An empty change set only checks
// that the payment is visible to the tenant.
func (s *Service) Update(ctx context.Context, tenantID, id int64, dto UpdatePaymentDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if tenantID == 0 {
		return nil, internal.ErrPaymentNotFound
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return s.Get(ctx, tenantID, id)
	}

	if err := s.repo.Update(ctx, tenantID, id, changes); err != nil {
		return nil, persistence("failed to update payment", err)
	}

	updated, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, persistence("failed to load updated payment", err)
	}
	logger.From(ctx).Info("payment updated", "payment_id", id, "company_id", tenantID, "fields", len(changes))
	s.publish(ctx, events.NewPaymentUpdatedEvent(updated.ID, tenantID, updated.EmployeeID, updated.Reference, updated.AmountLocal, updated.AmountUSD, updated.Status))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	if tenantID == 0 {
		return internal.ErrPaymentNotFound
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return persistence("failed to delete payment", err)
	}
	logger.From(ctx).Info("payment deleted", "payment_id", id, "company_id", tenantID)
	s.publish(ctx, events.NewPaymentDeletedEvent(id, tenantID))
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish ledger event", "event_type", event.EventType(), "error", err)
	}
}

func notAccessible() *internal.AppError {
	return internal.NewNotFoundError("Employee not found or not accessible", internal.ErrCodeEmployeeNotFound)
}

func persistence(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewPersistenceError(msg, err)
}
