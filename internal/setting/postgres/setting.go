package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	settingDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/setting"
	"github.com/frahmantamala/payroll-management/internal/setting"
	"github.com/jmoiron/sqlx"
)

type SettingRepository struct {
	db *sqlx.DB
}

func NewSettingRepository(db *sqlx.DB) setting.RepositoryAPI {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*setting.Setting, error) {
	var row settingDatamodel.Setting
	query := r.db.Rebind(`SELECT "key", value, updated_at FROM settings WHERE "key" = ?`)
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrSettingNotFound
		}
		return nil, err
	}
	return setting.FromDataModel(&row), nil
}

func (r *SettingRepository) Upsert(ctx context.Context, s *setting.Setting) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	query := `INSERT INTO settings ("key", value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT ("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.NamedExecContext(ctx, query, setting.ToDataModel(s))
	return err
}
