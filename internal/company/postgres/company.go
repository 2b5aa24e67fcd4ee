package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/company"
	companyDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/user"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*company.Company, error) {
	var c companyDatamodel.Company
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return company.FromDataModel(&c), nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) error {
	res := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"address":    c.Address,
			"email":      c.Email,
			"phone":      c.Phone,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) CreateAndAttach(ctx context.Context, userID int64, c *company.Company) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return CreateAndAttachTx(tx, userID, c)
	})
}

// CreateAndAttachTx runs inside a caller-owned transaction so registration can reuse it.
func CreateAndAttachTx(tx *gorm.DB, userID int64, c *company.Company) error {
	model := company.ToDataModel(c)
	if err := tx.Create(model).Error; err != nil {
		return err
	}

	res := tx.Model(&userDatamodel.User{}).
		Where("id = ? AND company_id IS NULL", userID).
		Update("company_id", model.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return company.ErrUserAlreadyAttached
	}

	*c = *company.FromDataModel(model)
	return nil
}

func (r *CompanyRepository) UserCompanyID(ctx context.Context, userID int64) (*int64, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Select("id", "company_id").First(&u, userID).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return u.CompanyID, nil
}
