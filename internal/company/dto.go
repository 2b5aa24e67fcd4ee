package company

import (
	"strings"

	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

type CompanyDTO struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

func (d *CompanyDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = trimmedOrNil(d.Address)
	d.Email = trimmedOrNil(d.Email)
	d.Phone = trimmedOrNil(d.Phone)
}

func (d *CompanyDTO) Validate() error {
	d.Normalize()
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("email", d.Email).Email().MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(64)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
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
