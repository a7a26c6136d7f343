package user

import "time"

type Email struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type User struct {
	ID           string        `gorm:"primaryKey;column:id"`
	Username     string        `gorm:"column:username;uniqueIndex;not null"`
	Name         string        `gorm:"column:name"`
	Emails       []Email       `gorm:"column:emails;type:text;serializer:json"`
	Roles        []string      `gorm:"column:roles;type:text;serializer:json"`
	Status       string        `gorm:"column:status;default:offline"`
	StatusText   string        `gorm:"column:status_text"`
	Bio          string        `gorm:"column:bio"`
	Phone        string        `gorm:"column:phone"`
	UTCOffset    *float64      `gorm:"column:utc_offset"`
	Active       bool          `gorm:"column:active"`
	Reason       string        `gorm:"column:reason"`
	CustomFields []CustomField `gorm:"column:custom_fields;type:text;serializer:json"`
	PasswordHash string        `gorm:"column:password_hash"`
	LastLogin    *time.Time    `gorm:"column:last_login"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Permission maps a permission name to the roles granting it.
type Permission struct {
	ID    string   `gorm:"primaryKey;column:id"`
	Roles []string `gorm:"column:roles;type:text;serializer:json"`
}

func (Permission) TableName() string {
	return "permissions"
}
