package postgres

import (
	"context"
	"strings"

	"github.com/frahmantamala/payroll-management/internal"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	paymentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payment"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"github.com/frahmantamala/payroll-management/internal/payment"
	"gorm.io/gorm"
)

const (
	joinedColumns = "p.id, p.employee_id, p.amount_local, p.amount_usd, p.date, p.status, p.reference, p.created_at, " +
		"e.name AS employee_name, e.position AS employee_position, e.email AS employee_email, e.phone AS employee_phone"

	// tenantScope restricts a payments statement to rows whose employee belongs to the company.
	tenantScope = "employee_id IN (SELECT id FROM employees WHERE company_id = ?)"

	searchClause = "(LOWER(e.name) LIKE ? ESCAPE '\\' OR LOWER(e.email) LIKE ? ESCAPE '\\' " +
		"OR LOWER(e.phone) LIKE ? ESCAPE '\\' OR LOWER(p.reference) LIKE ? ESCAPE '\\')"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) payment.RepositoryAPI {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) joined(ctx context.Context, companyID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payments AS p").
		Select(joinedColumns).
		Joins("JOIN employees e ON e.id = p.employee_id").
		Where("e.company_id = ?", companyID)
}

func (r *PaymentRepository) List(ctx context.Context, companyID int64, search string) ([]*payment.Payment, error) {
	q := r.joined(ctx, companyID)
	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where(searchClause, pattern, pattern, pattern, pattern)
	}

	var rows []*paymentDatamodel.PaymentWithEmployee
	err := q.Order("p.date DESC").
		Order("p.created_at DESC").
		Order("p.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return payment.FromJoinedRows(rows), nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, companyID, id int64) (*payment.Payment, error) {
	var rows []*paymentDatamodel.PaymentWithEmployee
	err := r.joined(ctx, companyID).
		Where("p.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrPaymentNotFound
	}
	return payment.FromJoinedRow(rows[0]), nil
}

func (r *PaymentRepository) EmployeeInTenant(ctx context.Context, companyID, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ? AND company_id = ?", employeeID, companyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PaymentRepository) MaxReferenceSequence(ctx context.Context, year int) (int, error) {
	prefix := payment.ReferencePrefix(year)
	var maxSeq int
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(CAST(SUBSTR(reference, ?) AS INTEGER)), 0) FROM payments WHERE reference LIKE ?",
			len(prefix)+1, prefix+"%").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := payment.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return payment.ErrDuplicateReference
		}
		return err
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, companyID, id int64, changes map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&paymentDatamodel.Payment{}).
		Where("id = ?", id).
		Where(tenantScope, companyID).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, companyID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where(tenantScope, companyID).
		Delete(&paymentDatamodel.Payment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrPaymentNotFound
	}
	return nil
}
