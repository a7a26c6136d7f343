package postgres

import (
	"context"

	settingDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/setting"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/jmoiron/sqlx"
)

type SettingRepository struct {
	db *sqlx.DB
}

func NewSettingRepository(db *sqlx.DB) settings.RepositoryAPI {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]*settingDatamodel.Setting, error) {
	var rows []*settingDatamodel.Setting
	err := r.db.SelectContext(ctx, &rows, `SELECT key, value, updated_at FROM settings ORDER BY key ASC`)
	return rows, err
}

func (r *SettingRepository) Upsert(ctx context.Context, s *settingDatamodel.Setting) error {
	query := r.db.Rebind(`
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query, s.Key, s.Value, s.UpdatedAt)
	return err
}
