package postgres

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	userDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, username string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "password_hash", "active").
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
	}, nil
}

// GetViewer returns nil for unknown or inactive users.
func (r *Repository) GetViewer(ctx context.Context, userID string) (*apperrors.Viewer, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "roles", "active").
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}

	var permissions []userDatamodel.Permission
	if err := r.db.WithContext(ctx).Find(&permissions).Error; err != nil {
		return nil, err
	}
	table := make(map[string][]string, len(permissions))
	for _, p := range permissions {
		table[p.ID] = p.Roles
	}

	return &apperrors.Viewer{
		ID:          u.ID,
		Username:    u.Username,
		Roles:       u.Roles,
		Permissions: auth.PermissionsForRoles(table, u.Roles),
	}, nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}

// SeedPermissions upserts the default permission table without touching customised rows.
func (r *Repository) SeedPermissions(ctx context.Context, table map[string][]string) (int, error) {
	created := 0
	for id, roles := range table {
		perm := userDatamodel.Permission{ID: id, Roles: roles}
		result := r.db.WithContext(ctx).Where("id = ?", id).FirstOrCreate(&perm)
		if result.Error != nil {
			return created, result.Error
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}
