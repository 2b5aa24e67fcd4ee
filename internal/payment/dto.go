package payment

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

const maxStatusLength = 32

type CreatePaymentDTO struct {
	EmployeeID  int64    `json:"employee_id"`
	AmountLocal *float64 `json:"amount_local"`
	AmountUSD   *float64 `json:"amount_usd"`
	Date        string   `json:"date"`
	Status      *string  `json:"status"`
}

func (d *CreatePaymentDTO) Validate() error {
	d.Date = strings.TrimSpace(d.Date)

	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required().MinInt(1, errors.ErrCodeInvalidID)
	v.Field("amount_local", d.AmountLocal).Required().NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("amount_usd", d.AmountUSD).Required().NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("date", d.Date).Required().Date()
	if d.Status != nil {
		v.Field("status", strings.TrimSpace(*d.Status)).Required().MaxLength(maxStatusLength)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ParsedDate must only be called after Validate succeeded.
func (d *CreatePaymentDTO) ParsedDate() time.Time {
	t, _ := validation.ParseDate(d.Date)
	return t
}

func (d *CreatePaymentDTO) StatusOrDefault() string {
	if d.Status == nil {
		return DefaultStatus
	}
	return strings.TrimSpace(*d.Status)
}

// UpdatePaymentDTO carries a partial update. The reference is never updatable.
type UpdatePaymentDTO struct {
	AmountLocal *float64 `json:"amount_local"`
	AmountUSD   *float64 `json:"amount_usd"`
	Date        *string  `json:"date"`
	Status      *string  `json:"status"`
}

func (d *UpdatePaymentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount_local", d.AmountLocal).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("amount_usd", d.AmountUSD).NonNegative(errors.ErrCodeInvalidAmount)
	if d.Date != nil {
		v.Field("date", strings.TrimSpace(*d.Date)).Required().Date()
	}
	if d.Status != nil {
		v.Field("status", strings.TrimSpace(*d.Status)).Required().MaxLength(maxStatusLength)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Changes returns the columns to coalesce into the stored row.
func (d *UpdatePaymentDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.AmountLocal != nil {
		changes["amount_local"] = *d.AmountLocal
	}
	if d.AmountUSD != nil {
		changes["amount_usd"] = *d.AmountUSD
	}
	if d.Date != nil {
		if t, err := validation.ParseDate(*d.Date); err == nil {
			changes["date"] = t
		}
	}
	if d.Status != nil {
		changes["status"] = strings.TrimSpace(*d.Status)
	}
	return changes
}
