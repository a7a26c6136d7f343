package postgres

import (
	"context"
	"errors"

	vcDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/versioncheck"
	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VersionCheckRepository struct {
	db *gorm.DB
}

func NewVersionCheckRepository(db *gorm.DB) versioncheck.RepositoryAPI {
	return &VersionCheckRepository{db: db}
}

func (r *VersionCheckRepository) Get(ctx context.Context) (*vcDatamodel.VersionCheck, error) {
	var check vcDatamodel.VersionCheck
	err := r.db.WithContext(ctx).Where("id = ?", vcDatamodel.SingletonID).First(&check).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &check, nil
}

func (r *VersionCheckRepository) Save(ctx context.Context, check *vcDatamodel.VersionCheck) error {
	check.ID = vcDatamodel.SingletonID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(check).Error
}

func (r *VersionCheckRepository) DismissBanner(ctx context.Context) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&vcDatamodel.VersionCheck{}).
		Where("id = ?", vcDatamodel.SingletonID).
		Update("banner_dismissed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
