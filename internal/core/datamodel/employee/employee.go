package employee

import "time"

type Employee struct {
	ID          int64      `gorm:"primaryKey"`
	CompanyID   int64      `gorm:"column:company_id;not null;index"`
	Name        string     `gorm:"column:name;size:255;not null"`
	Email       *string    `gorm:"column:email;size:255"`
	Phone       *string    `gorm:"column:phone;size:64"`
	Position    string     `gorm:"column:position;size:255;not null"`
	Contract    string     `gorm:"column:contract;size:64;not null"`
	StartDate   *time.Time `gorm:"column:start_date;type:date"`
	SalaryLocal *float64   `gorm:"column:salary_local;type:numeric(15,2)"`
	SalaryUSD   *float64   `gorm:"column:salary_usd;type:numeric(15,2)"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}
