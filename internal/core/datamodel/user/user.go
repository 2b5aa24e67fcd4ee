package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	FirstName    string    `gorm:"column:first_name;size:100;not null"`
	LastName     string    `gorm:"column:last_name;size:100;not null"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Phone        *string   `gorm:"column:phone;size:64"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CompanyID    *int64    `gorm:"column:company_id;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}
