package employee

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	Name        string   `json:"name"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Position    string   `json:"position"`
	Contract    string   `json:"contract"`
	StartDate   *string  `json:"start_date"`
	SalaryLocal *float64 `json:"salary_local"`
	SalaryUSD   *float64 `json:"salary_usd"`
}

func (d *CreateEmployeeDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Position = strings.TrimSpace(d.Position)
	d.Contract = strings.TrimSpace(d.Contract)
	d.Email = trimmedOrNil(d.Email)
	d.Phone = trimmedOrNil(d.Phone)
	d.StartDate = trimmedOrNil(d.StartDate)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("position", d.Position).Required().MaxLength(255)
	v.Field("contract", d.Contract).Required().MaxLength(64)
	v.Field("email", d.Email).Email().MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(64)
	v.Field("start_date", d.StartDate).Date()
	v.Field("salary_local", d.SalaryLocal).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("salary_usd", d.SalaryUSD).NonNegative(errors.ErrCodeInvalidAmount)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateEmployeeDTO carries a partial update; nil fields keep their stored value.
type UpdateEmployeeDTO struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Position    *string  `json:"position"`
	Contract    *string  `json:"contract"`
	StartDate   *string  `json:"start_date"`
	SalaryLocal *float64 `json:"salary_local"`
	SalaryUSD   *float64 `json:"salary_usd"`
}

func (d *UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", strings.TrimSpace(*d.Name)).Required().MaxLength(255)
	}
	if d.Position != nil {
		v.Field("position", strings.TrimSpace(*d.Position)).Required().MaxLength(255)
	}
	if d.Contract != nil {
		v.Field("contract", strings.TrimSpace(*d.Contract)).Required().MaxLength(64)
	}
	v.Field("email", trimmedOrNil(d.Email)).Email().MaxLength(255)
	v.Field("phone", trimmedOrNil(d.Phone)).MaxLength(64)
	v.Field("start_date", trimmedOrNil(d.StartDate)).Date()
	v.Field("salary_local", d.SalaryLocal).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("salary_usd", d.SalaryUSD).NonNegative(errors.ErrCodeInvalidAmount)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Changes returns the column set for a coalescing update. Blank optional strings are ignored.
func (d *UpdateEmployeeDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.Name != nil {
		changes["name"] = strings.TrimSpace(*d.Name)
	}
	if d.Position != nil {
		changes["position"] = strings.TrimSpace(*d.Position)
	}
	if d.Contract != nil {
		changes["contract"] = strings.TrimSpace(*d.Contract)
	}
	if v := trimmedOrNil(d.Email); v != nil {
		changes["email"] = *v
	}
	if v := trimmedOrNil(d.Phone); v != nil {
		changes["phone"] = *v
	}
	if v := trimmedOrNil(d.StartDate); v != nil {
		if t, err := validation.ParseDate(*v); err == nil {
			changes["start_date"] = t
		}
	}
	if d.SalaryLocal != nil {
		changes["salary_local"] = *d.SalaryLocal
	}
	if d.SalaryUSD != nil {
		changes["salary_usd"] = *d.SalaryUSD
	}
	return changes
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := validation.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
