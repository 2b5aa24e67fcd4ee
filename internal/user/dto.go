package user

import (
	"strings"

	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

// MaxPasswordLength is the bcrypt input limit.
const MaxPasswordLength = 72

type UpdateProfileDTO struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

func (d *UpdateProfileDTO) Validate() error {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = NormalizeEmail(d.Email)
	if d.Phone != nil {
		if p := strings.TrimSpace(*d.Phone); p != "" {
			d.Phone = &p
		} else {
			d.Phone = nil
		}
	}

	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(64)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d *ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MaxLength(MaxPasswordLength)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
