package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
)

type Employee struct {
	ID          int64      `json:"id"`
	CompanyID   int64      `json:"company_id"`
	Name        string     `json:"name"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	Position    string     `json:"position"`
	Contract    string     `json:"contract"`
	StartDate   *time.Time `json:"start_date"`
	SalaryLocal *float64   `json:"salary_local"`
	SalaryUSD   *float64   `json:"salary_usd"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Position:    e.Position,
		Contract:    e.Contract,
		StartDate:   e.StartDate,
		SalaryLocal: e.SalaryLocal,
		SalaryUSD:   e.SalaryUSD,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Position:    e.Position,
		Contract:    e.Contract,
		StartDate:   e.StartDate,
		SalaryLocal: e.SalaryLocal,
		SalaryUSD:   e.SalaryUSD,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
