// Package storetest opens throwaway SQLite databases with the service schema for repository tests.
package storetest

import (
	"fmt"

	companyDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	paymentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payment"
	userDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/user"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const settingsSchema = `CREATE TABLE settings (
	"key" VARCHAR(64) PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Open returns an in-memory database. A single pooled connection keeps every caller on the same memory db.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), store.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&companyDatamodel.Company{},
		&userDatamodel.User{},
		&employeeDatamodel.Employee{},
		&paymentDatamodel.Payment{},
	); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// OpenSQLX returns an in-memory database for the sqlx backed repositories.
func OpenSQLX() (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(settingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedUser inserts a user with an optional company and returns its id.
func SeedUser(db *gorm.DB, email string, companyID *int64) (int64, error) {
	u := &userDatamodel.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
		CompanyID:    companyID,
	}
	if err := db.Create(u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

func SeedCompany(db *gorm.DB, name string) (int64, error) {
	c := &companyDatamodel.Company{Name: name}
	if err := db.Create(c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func SeedEmployee(db *gorm.DB, companyID int64, name string) (int64, error) {
	e := &employeeDatamodel.Employee{
		CompanyID: companyID,
		Name:      name,
		Position:  "Engineer",
		Contract:  "full-time",
	}
	if err := db.Create(e).Error; err != nil {
		return 0, err
	}
	return e.ID, nil
}
