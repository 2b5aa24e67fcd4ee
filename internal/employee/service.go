package employee

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

// RepositoryAPI is tenant-scoped: every method filters on companyID.
type RepositoryAPI interface {
	List(ctx context.Context, companyID int64) ([]*Employee, error)
	GetByID(ctx context.Context, companyID, id int64) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, companyID, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, companyID, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{repo: repo, logger: lg}
}

// List returns the tenant's employees, newest first. A zero tenant yields an empty list.
func (s *Service) List(ctx context.Context, tenantID int64) ([]*Employee, error) {
	if tenantID == 0 {
		return []*Employee{}, nil
	}
	employees, err := s.repo.List(ctx, tenantID)
	if err != nil {
		s.logger.Error("failed to list employees", "company_id", tenantID, "error", err)
		return nil, persistence("failed to list employees", err)
	}
	return employees, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Employee, error) {
	if tenantID == 0 {
		return nil, internal.ErrEmployeeNotFound
	}
	e, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, persistence("failed to load employee", err)
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, tenantID int64, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if tenantID == 0 {
		return nil, internal.NewValidationError("A company is required to add employees", internal.ErrCodeCompanyNotFound)
	}

	e := &Employee{
		CompanyID:   tenantID,
		Name:        dto.Name,
		Email:       dto.Email,
		Phone:       dto.Phone,
		Position:    dto.Position,
		Contract:    dto.Contract,
		StartDate:   parseOptionalDate(dto.StartDate),
		SalaryLocal: dto.SalaryLocal,
		SalaryUSD:   dto.SalaryUSD,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create employee", "company_id", tenantID, "error", err)
		return nil, persistence("failed to create employee", err)
	}

	logger.From(ctx).Info("employee created", "employee_id", e.ID, "company_id", tenantID)
	return e, nil
}

// Update applies the non-nil fields of dto. An empty change set only checks ownership.
func (s *Service) Update(ctx context.Context, tenantID, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if tenantID == 0 {
		return nil, internal.ErrEmployeeNotFound
	}

	if changes := dto.Changes(); len(changes) > 0 {
		if err := s.repo.Update(ctx, tenantID, id, changes); err != nil {
			return nil, persistence("failed to update employee", err)
		}
		logger.From(ctx).Info("employee updated", "employee_id", id, "company_id", tenantID, "fields", len(changes))
	}

	return s.Get(ctx, tenantID, id)
}

func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	if tenantID == 0 {
		return internal.ErrEmployeeNotFound
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return persistence("failed to delete employee", err)
	}
	logger.From(ctx).Info("employee deleted", "employee_id", id, "company_id", tenantID)
	return nil
}

func persistence(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewPersistenceError(msg, err)
}
