package versioncheck

import "time"

// SingletonID is the primary key of the only version check row.
const SingletonID int64 = 1

type VersionCheck struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false"`
	CheckedAt       time.Time `gorm:"column:checked_at;not null"`
	CurrentVersion  string    `gorm:"column:current_version;not null"`
	LatestVersion   string    `gorm:"column:latest_version;not null"`
	UpdateNeeded    bool      `gorm:"column:update_needed"`
	BannerDismissed bool      `gorm:"column:banner_dismissed"`
}

func (VersionCheck) TableName() string {
	return "version_checks"
}
