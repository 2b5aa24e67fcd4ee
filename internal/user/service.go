package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// EmailTaken reports whether email belongs to a user other than excludeID.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateProfile(ctx context.Context, u *User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{repo: repo, hasher: hasher, logger: lg}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("failed to load user", err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, dto.Email, id)
	if err != nil {
		return nil, persistence("failed to check email", err)
	}
	if taken {
		return nil, internal.NewConflictError("Email already used by another user", internal.ErrCodeEmailTaken)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("failed to load user", err)
	}
	u.FirstName = dto.FirstName
	u.LastName = dto.LastName
	u.Email = dto.Email
	u.Phone = dto.Phone

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, persistence("failed to update profile", err)
	}
	logger.From(ctx).Info("profile updated", "user_id", id)
	return s.GetByID(ctx, id)
}

func (s *Service) ChangePassword(ctx context.Context, id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return persistence("failed to load user", err)
	}
	if err := s.hasher.Compare(u.PasswordHash, dto.CurrentPassword); err != nil {
		return internal.ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return persistence("failed to update password", err)
	}
	logger.From(ctx).Info("password changed", "user_id", id)
	return nil
}

func persistence(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewPersistenceError(msg, err)
}
