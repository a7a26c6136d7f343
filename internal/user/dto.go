package user

import (
	"strings"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/core/common/validation"
)

// Lookup identifies a user by id or, when the id is empty, by username.
type Lookup struct {
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
}

func (l Lookup) Validate() error {
	if strings.TrimSpace(l.UserID) == "" && strings.TrimSpace(l.Username) == "" {
		return errors.ErrUserLookupRequired
	}
	return nil
}

type DeleteRequest struct {
	UserID            string `json:"userId"`
	ConfirmRelinquish bool   `json:"confirmRelinquish,omitempty"`
}

func (d DeleteRequest) Validate() error {
	return requireUserID(d.UserID)
}

type SetActiveStatusRequest struct {
	UserID            string `json:"userId"`
	ActiveStatus      bool   `json:"activeStatus"`
	ConfirmRelinquish bool   `json:"confirmRelinquish,omitempty"`
}

func (d SetActiveStatusRequest) Validate() error {
	return requireUserID(d.UserID)
}

type SetAdminStatusRequest struct {
	UserID string `json:"userId"`
	Admin  bool   `json:"admin"`
}

func (d SetAdminStatusRequest) Validate() error {
	return requireUserID(d.UserID)
}

func requireUserID(id string) error {
	v := validation.NewValidator()
	v.Field("userId", id).Required()
	return v.Err()
}

type InfoResponse struct {
	User    *User `json:"user"`
	Success bool  `json:"success"`
}

type StatusResponse struct {
	User    *User `json:"user,omitempty"`
	Success bool  `json:"success"`
}
