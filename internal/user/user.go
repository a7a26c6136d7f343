package user

import (
	"context"
	"time"

	roomDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/room"
	userDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/chat-admin/internal/settings"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// UnlinkedUsername replaces the author of messages kept after their user is deleted.
	UnlinkedUsername = "deleted-user"
)

type Email struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type User struct {
	ID           string        `json:"_id"`
	Username     string        `json:"username"`
	Name         string        `json:"name,omitempty"`
	Emails       []Email       `json:"emails,omitempty"`
	Roles        []string      `json:"roles"`
	Status       string        `json:"status,omitempty"`
	StatusText   string        `json:"statusText,omitempty"`
	Bio          string        `json:"bio,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	UTCOffset    *float64      `json:"utcOffset,omitempty"`
	Active       bool          `json:"active"`
	Reason       string        `json:"reason,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
	PasswordHash string        `json:"-"`
	LastLogin    *time.Time    `json:"lastLogin,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"-"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// WithoutEmails is the view returned to viewers lacking full-info access.
func (u *User) WithoutEmails() *User {
	copied := *u
	copied.Emails = nil
	return &copied
}

// OwnershipTransfer hands a room to the member holding SubscriptionID.
type OwnershipTransfer struct {
	RoomID         string
	RoomName       string
	SubscriptionID string
	NewOwnerID     string
}

// Relinquishment is what has to happen to the rooms a user is the last owner of
// before the user can be deleted or deactivated.
type Relinquishment struct {
	UserID    string
	Transfers []OwnershipTransfer
	Removals  []*roomDatamodel.Room
}

func (r *Relinquishment) Empty() bool {
	return len(r.Transfers) == 0 && len(r.Removals) == 0
}

func (r *Relinquishment) Conflict() *OwnershipConflict {
	conflict := &OwnershipConflict{
		ShouldChangeOwner: len(r.Transfers) > 0,
		ShouldBeRemoved:   len(r.Removals) > 0,
		ChangeOwnerRooms:  []string{},
		RemovedRooms:      []string{},
	}
	for _, t := range r.Transfers {
		conflict.ChangeOwnerRooms = append(conflict.ChangeOwnerRooms, t.RoomName)
	}
	for _, room := range r.Removals {
		conflict.RemovedRooms = append(conflict.RemovedRooms, room.Name)
	}
	return conflict
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Save(ctx context.Context, u *userDatamodel.User) error
	CountActiveAdmins(ctx context.Context) (int64, error)
	ListOwnedSubscriptions(ctx context.Context, userID string) ([]*roomDatamodel.Subscription, error)
	ListRoomMembers(ctx context.Context, roomID string) ([]*roomDatamodel.Subscription, error)
	GetRoom(ctx context.Context, roomID string) (*roomDatamodel.Room, error)
	Deactivate(ctx context.Context, plan *Relinquishment) error
	Delete(ctx context.Context, plan *Relinquishment, erasure settings.ErasureType) error
}

func ToDataModel(u *User) *userDatamodel.User {
	emails := make([]userDatamodel.Email, 0, len(u.Emails))
	for _, e := range u.Emails {
		emails = append(emails, userDatamodel.Email{Address: e.Address, Verified: e.Verified})
	}
	fields := make([]userDatamodel.CustomField, 0, len(u.CustomFields))
	for _, f := range u.CustomFields {
		fields = append(fields, userDatamodel.CustomField{Label: f.Label, Value: f.Value})
	}
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Emails:       emails,
		Roles:        u.Roles,
		Status:       u.Status,
		StatusText:   u.StatusText,
		Bio:          u.Bio,
		Phone:        u.Phone,
		UTCOffset:    u.UTCOffset,
		Active:       u.Active,
		Reason:       u.Reason,
		CustomFields: fields,
		PasswordHash: u.PasswordHash,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	emails := make([]Email, 0, len(u.Emails))
	for _, e := range u.Emails {
		emails = append(emails, Email{Address: e.Address, Verified: e.Verified})
	}
	fields := make([]CustomField, 0, len(u.CustomFields))
	for _, f := range u.CustomFields {
		fields = append(fields, CustomField{Label: f.Label, Value: f.Value})
	}
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Emails:       emails,
		Roles:        roles,
		Status:       u.Status,
		StatusText:   u.StatusText,
		Bio:          u.Bio,
		Phone:        u.Phone,
		UTCOffset:    u.UTCOffset,
		Active:       u.Active,
		Reason:       u.Reason,
		CustomFields: fields,
		PasswordHash: u.PasswordHash,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
