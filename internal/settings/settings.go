package settings

import (
	"encoding/json"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/core/common/validation"
)

const (
	KeyRegisterServer          = "Register_Server"
	KeyUpdateEnableChecker     = "Update_EnableChecker"
	KeyUseRealName             = "UI_Use_Real_Name"
	KeyManuallyApproveNewUsers = "Accounts_ManuallyApproveNewUsers"
	KeyMessageErasureType      = "Message_ErasureType"
)

// ErasureType decides what happens to a deleted user's messages.
type ErasureType string

const (
	ErasureDelete ErasureType = "Delete"
	ErasureUnlink ErasureType = "Unlink"
	ErasureKeep   ErasureType = "Keep"
)

func (e ErasureType) Valid() bool {
	switch e {
	case ErasureDelete, ErasureUnlink, ErasureKeep:
		return true
	}
	return false
}

// Snapshot is an immutable view of the settings the admin surfaces read.
type Snapshot struct {
	RegisterServer       bool        `json:"Register_Server"`
	UpdateCheckerEnabled bool        `json:"Update_EnableChecker"`
	ShowRealNames        bool        `json:"UI_Use_Real_Name"`
	ApproveManuallyUsers bool        `json:"Accounts_ManuallyApproveNewUsers"`
	ErasureType          ErasureType `json:"Message_ErasureType"`
}

type definition struct {
	defaultValue interface{}
	validate     func(raw json.RawMessage) error
}

var definitions = map[string]definition{
	KeyRegisterServer:          {defaultValue: true, validate: validateBool},
	KeyUpdateEnableChecker:     {defaultValue: true, validate: validateBool},
	KeyUseRealName:             {defaultValue: false, validate: validateBool},
	KeyManuallyApproveNewUsers: {defaultValue: false, validate: validateBool},
	KeyMessageErasureType:      {defaultValue: string(ErasureDelete), validate: validateErasureType},
}

// Keys lists every known setting in a stable order.
func Keys() []string {
	return []string{
		KeyRegisterServer,
		KeyUpdateEnableChecker,
		KeyUseRealName,
		KeyManuallyApproveNewUsers,
		KeyMessageErasureType,
	}
}

func IsKnown(key string) bool {
	_, ok := definitions[key]
	return ok
}

func defaultRaw(key string) json.RawMessage {
	def, ok := definitions[key]
	if !ok {
		return nil
	}
	raw, _ := json.Marshal(def.defaultValue)
	return raw
}

func validateBool(raw json.RawMessage) error {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return errors.NewValidationError("value must be a boolean", errors.ErrCodeValidationFailed)
	}
	return nil
}

func validateErasureType(raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.NewValidationError("value must be a string", errors.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	v.Field(KeyMessageErasureType, s).
		OneOf(string(ErasureDelete), string(ErasureUnlink), string(ErasureKeep))
	return v.Err()
}
