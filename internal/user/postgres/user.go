package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	userDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/user"
	"github.com/frahmantamala/payroll-management/internal/core/store"
	"github.com/frahmantamala/payroll-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts u inside tx, or on the repository's connection when tx is nil.
func (r *UserRepository) Create(ctx context.Context, tx *gorm.DB, u *user.User) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	model := user.ToDataModel(u)
	if err := tx.Create(model).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrEmailTaken
		}
		return err
	}
	*u = *user.FromDataModel(model)
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"email":      u.Email,
			"phone":      u.Phone,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		if store.IsUniqueViolation(res.Error) {
			return internal.NewConflictError("Email already used by another user", internal.ErrCodeEmailTaken)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
