package company

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*Company, error)
	Update(ctx context.Context, c *Company) error
	// CreateAndAttach inserts c and links it to the user in one transaction.
	// It returns ErrUserAlreadyAttached, with nothing written, if the user already has a company.
	CreateAndAttach(ctx context.Context, userID int64, c *Company) error
	UserCompanyID(ctx context.Context, userID int64) (*int64, error)
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

// EnsureTenant returns the caller's company id, creating a default company first when
// the caller has none. Concurrent calls for the same user converge on a single company.
func (s *Service) EnsureTenant(ctx context.Context, user *internal.User) (int64, error) {
	if user == nil {
		return 0, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeInvalidToken)
	}
	if user.HasCompany() {
		return *user.CompanyID, nil
	}

	c := &Company{Name: DefaultName(user.FirstName, user.LastName)}
	if user.Email != "" {
		email := user.Email
		c.Email = &email
	}

	err := s.repo.CreateAndAttach(ctx, user.ID, c)
	switch {
	case err == nil:
		user.CompanyID = &c.ID
		logger.From(ctx).Info("tenant created for user", "user_id", user.ID, "company_id", c.ID)
		return c.ID, nil
	case errors.Is(err, ErrUserAlreadyAttached):
		existing, lookupErr := s.repo.UserCompanyID(ctx, user.ID)
		if lookupErr != nil {
			return 0, persistence("failed to resolve tenant", lookupErr)
		}
		if existing == nil {
			return 0, internal.ErrUserNotFound
		}
		user.CompanyID = existing
		return *existing, nil
	default:
		s.logger.Error("failed to create tenant", "user_id", user.ID, "error", err)
		return 0, persistence("failed to create company", err)
	}
}

// GetMine returns the caller's company as a single-element list, or an empty list.
func (s *Service) GetMine(ctx context.Context, user *internal.User) ([]*Company, error) {
	if !user.HasCompany() {
		return []*Company{}, nil
	}
	c, err := s.repo.GetByID(ctx, *user.CompanyID)
	if err != nil {
		if errors.Is(err, internal.ErrCompanyNotFound) {
			return []*Company{}, nil
		}
		return nil, persistence("failed to load company", err)
	}
	return []*Company{c}, nil
}

func (s *Service) Get(ctx context.Context, user *internal.User, id int64) (*Company, error) {
	if user.TenantID() != id {
		return nil, internal.ErrCompanyAccessDenied
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("failed to load company", err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, user *internal.User, dto CompanyDTO) (*Company, error) {
	if user.HasCompany() {
		return nil, internal.ErrCompanyExists
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Company{
		Name:    dto.Name,
		Address: dto.Address,
		Email:   dto.Email,
		Phone:   dto.Phone,
	}
	if err := s.repo.CreateAndAttach(ctx, user.ID, c); err != nil {
		if errors.Is(err, ErrUserAlreadyAttached) {
			return nil, internal.ErrCompanyExists
		}
		s.logger.Error("failed to create company", "user_id", user.ID, "error", err)
		return nil, persistence("failed to create company", err)
	}

	user.CompanyID = &c.ID
	s.logger.Info("company created", "company_id", c.ID, "user_id", user.ID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, user *internal.User, id int64, dto CompanyDTO) (*Company, error) {
	if user.TenantID() != id {
		return nil, internal.ErrCompanyAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("failed to load company", err)
	}
	c.Name = dto.Name
	c.Address = dto.Address
	c.Email = dto.Email
	c.Phone = dto.Phone

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, persistence("failed to update company", err)
	}
	s.logger.Info("company updated", "company_id", id)
	return c, nil
}

// persistence passes AppErrors through and wraps anything else.
func persistence(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewPersistenceError(msg, err)
}
