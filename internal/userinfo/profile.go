package userinfo

import (
	"strings"
	"time"

	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
)

const (
	StatusOnline  = "online"
	StatusAway    = "away"
	StatusBusy    = "busy"
	StatusOffline = "offline"

	reasonLabel = "Reason"
)

// ProfileView is the read-only projection of a user shown by the panel.
type ProfileView struct {
	ID           string             `json:"_id"`
	DisplayName  string             `json:"displayName"`
	Handle       string             `json:"handle"`
	Roles        []string           `json:"roles"`
	Status       string             `json:"status"`
	StatusText   string             `json:"customStatus,omitempty"`
	Bio          string             `json:"bio,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	UTCOffset    *float64           `json:"utcOffset,omitempty"`
	CustomFields []user.CustomField `json:"customFields"`
	Email        string             `json:"email,omitempty"`
	LastLogin    *time.Time         `json:"lastLogin,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	Active       bool               `json:"active"`
	Admin        bool               `json:"admin"`
}

// HasEmail reports whether any email address was selected.
func (p ProfileView) HasEmail() bool {
	return p.Email != ""
}

// BuildProfile derives the profile view from a user record and the current settings.
func BuildProfile(u *user.User, s settings.Snapshot) ProfileView {
	displayName := u.Username
	if s.ShowRealNames {
		displayName = u.Name
	}

	roles := append([]string{}, u.Roles...)

	return ProfileView{
		ID:           u.ID,
		DisplayName:  displayName,
		Handle:       u.Username,
		Roles:        roles,
		Status:       NormalizeStatus(u.Status),
		StatusText:   u.StatusText,
		Bio:          u.Bio,
		Phone:        u.Phone,
		UTCOffset:    u.UTCOffset,
		CustomFields: customFields(u, s),
		Email:        primaryEmail(u.Emails),
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		Active:       u.Active,
		Admin:        u.IsAdmin(),
	}
}

func primaryEmail(emails []user.Email) string {
	for _, e := range emails {
		if e.Address != "" {
			return e.Address
		}
	}
	return ""
}

func customFields(u *user.User, s settings.Snapshot) []user.CustomField {
	fields := make([]user.CustomField, 0, len(u.CustomFields)+1)
	if s.ApproveManuallyUsers && !u.Active && u.Reason != "" {
		fields = append(fields, user.CustomField{Label: reasonLabel, Value: u.Reason})
	}
	for _, f := range u.CustomFields {
		if f.Label == "" && f.Value == "" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// NormalizeStatus maps any presence value onto the four known ones.
func NormalizeStatus(status string) string {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case StatusOnline, StatusAway, StatusBusy:
		return s
	default:
		return StatusOffline
	}
}
