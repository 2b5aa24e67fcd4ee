package company

import (
	"errors"
	"fmt"
	"strings"
	"time"

	companyDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/company"
)

// ErrUserAlreadyAttached is returned by the repository when the user row already points at a company.
var ErrUserAlreadyAttached = errors.New("user already attached to a company")

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultName is the name given to a company created implicitly for a user.
func DefaultName(firstName, lastName string) string {
	return strings.TrimSpace(fmt.Sprintf("Company of %s %s", firstName, lastName))
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
