package auth

import (
	"strings"

	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
	"github.com/frahmantamala/payroll-management/internal/user"
)

type RegisterDTO struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	Password       string  `json:"password"`
	CompanyName    *string `json:"company_name"`
	CompanyAddress *string `json:"company_address"`
}

func (d *RegisterDTO) Validate() error {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = user.NormalizeEmail(d.Email)
	d.Phone = trimmedOrNil(d.Phone)
	d.CompanyName = trimmedOrNil(d.CompanyName)
	d.CompanyAddress = trimmedOrNil(d.CompanyAddress)

	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MaxLength(user.MaxPasswordLength)
	v.Field("phone", d.Phone).MaxLength(64)
	v.Field("company_name", d.CompanyName).MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	d.Email = user.NormalizeEmail(d.Email)

	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
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
