package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/company"
	"github.com/frahmantamala/payroll-management/internal/user"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	// Register creates u and, when c is not nil, creates c and links u to it. Both commit or neither does.
	Register(ctx context.Context, u *user.User, c *company.Company) error
}

type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	hasher user.PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, hasher user.PasswordHasher, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{repo: repo, tokens: tokens, hasher: hasher, logger: lg}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, dto.Email)
	switch {
	case err == nil:
		return nil, internal.ErrEmailTaken
	case !errors.Is(err, internal.ErrUserNotFound):
		return nil, persistence("failed to check email", err)
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &user.User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PasswordHash: hash,
	}
	var c *company.Company
	if dto.CompanyName != nil {
		c = &company.Company{Name: *dto.CompanyName, Address: dto.CompanyAddress}
	}

	if err := s.repo.Register(ctx, u, c); err != nil {
		s.logger.Error("failed to register user", "email", dto.Email, "error", err)
		return nil, persistence("failed to register user", err)
	}

	logger.From(ctx).Info("user registered", "user_id", u.ID, "company_id", u.CompanyID)
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, persistence("failed to load user", err)
	}
	if err := s.hasher.Compare(u.PasswordHash, dto.Password); err != nil {
		logger.From(ctx).Warn("login rejected", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	return s.issue(u)
}

// Authenticate resolves a bearer token to the principal stored for it.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	if token == "" {
		return nil, internal.NewUnauthorizedError("Unauthorized", internal.ErrCodeInvalidToken)
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, persistence("failed to load user", err)
	}
	return u.Principal(), nil
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func persistence(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewPersistenceError(msg, err)
}
