package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, companyID int64) ([]*employee.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(rows), nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, companyID, id int64) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&row).Error
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	model := employee.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	*e = *employee.FromDataModel(model)
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, companyID, id int64, changes map[string]interface{}) error {
	changes["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, companyID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&employeeDatamodel.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}
