package postgres

import (
	"context"

	"github.com/frahmantamala/payroll-management/internal/auth"
	"github.com/frahmantamala/payroll-management/internal/company"
	companyPostgres "github.com/frahmantamala/payroll-management/internal/company/postgres"
	"github.com/frahmantamala/payroll-management/internal/user"
	userPostgres "github.com/frahmantamala/payroll-management/internal/user/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	*userPostgres.UserRepository
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		UserRepository: userPostgres.NewUserRepository(db),
		db:             db,
	}
}

func (r *Repository) Register(ctx context.Context, u *user.User, c *company.Company) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.Create(ctx, tx, u); err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		if err := companyPostgres.CreateAndAttachTx(tx, u.ID, c); err != nil {
			return err
		}
		u.CompanyID = &c.ID
		return nil
	})
}
