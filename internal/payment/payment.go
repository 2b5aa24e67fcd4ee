package payment

import (
	"errors"
	"fmt"
	"time"

	paymentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payment"
)

const (
	DefaultStatus        = "paid"
	MaxReferenceAttempts = 3
	referenceFormat      = "PAY-%d-%03d"
)

// ErrDuplicateReference is returned by the repository when an insert hits the reference unique constraint.
var ErrDuplicateReference = errors.New("payment reference already exists")

type Payment struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employee_id"`
	AmountLocal float64   `json:"amount_local"`
	AmountUSD   float64   `json:"amount_usd"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`

	EmployeeName     *string `json:"employee_name,omitempty"`
	EmployeePosition *string `json:"employee_position,omitempty"`
	EmployeeEmail    *string `json:"employee_email,omitempty"`
	EmployeePhone    *string `json:"employee_phone,omitempty"`
}

// ReferencePrefix is the shared prefix of every reference issued in year.
func ReferencePrefix(year int) string {
	return fmt.Sprintf("PAY-%d-", year)
}

// FormatReference renders PAY-<year>-<seq> with seq padded to three digits.
func FormatReference(year, seq int) string {
	return fmt.Sprintf(referenceFormat, year, seq)
}

func ToDataModel(p *Payment) *paymentDatamodel.Payment {
	return &paymentDatamodel.Payment{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		AmountLocal: p.AmountLocal,
		AmountUSD:   p.AmountUSD,
		Date:        p.Date,
		Status:      p.Status,
		Reference:   p.Reference,
		CreatedAt:   p.CreatedAt,
	}
}

func FromDataModel(p *paymentDatamodel.Payment) *Payment {
	return &Payment{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		AmountLocal: p.AmountLocal,
		AmountUSD:   p.AmountUSD,
		Date:        p.Date,
		Status:      p.Status,
		Reference:   p.Reference,
		CreatedAt:   p.CreatedAt,
	}
}

func FromJoinedRow(row *paymentDatamodel.PaymentWithEmployee) *Payment {
	p := FromDataModel(&row.Payment)
	p.EmployeeName = row.EmployeeName
	p.EmployeePosition = row.EmployeePosition
	p.EmployeeEmail = row.EmployeeEmail
	p.EmployeePhone = row.EmployeePhone
	return p
}

func FromJoinedRows(rows []*paymentDatamodel.PaymentWithEmployee) []*Payment {
	result := make([]*Payment, len(rows))
	for i, row := range rows {
		result[i] = FromJoinedRow(row)
	}
	return result
}
