package company

import "time"

type Company struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;size:255;not null"`
	Address   *string   `gorm:"column:address"`
	Email     *string   `gorm:"column:email;size:255"`
	Phone     *string   `gorm:"column:phone;size:64"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}
