package payment

import "time"

// Payment is one salary disbursement. Its tenant is implied through the employee.
type Payment struct {
	ID          int64     `gorm:"primaryKey"`
	EmployeeID  int64     `gorm:"column:employee_id;not null;index"`
	AmountLocal float64   `gorm:"column:amount_local;type:numeric(15,2);not null"`
	AmountUSD   float64   `gorm:"column:amount_usd;type:numeric(15,2);not null"`
	Date        time.Time `gorm:"column:date;type:date;not null"`
	Status      string    `gorm:"column:status;size:32;not null"`
	Reference   string    `gorm:"column:reference;size:32;uniqueIndex;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// PaymentWithEmployee is a payment row joined with its employee's contact fields.
type PaymentWithEmployee struct {
	Payment
	EmployeeName     *string `gorm:"column:employee_name"`
	EmployeePosition *string `gorm:"column:employee_position"`
	EmployeeEmail    *string `gorm:"column:employee_email"`
	EmployeePhone    *string `gorm:"column:employee_phone"`
}
