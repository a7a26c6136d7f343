package auth

import "github.com/frahmantamala/chat-admin/internal/core/common/validation"

const maxUsernameLength = 120

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(maxUsernameLength)
	v.Field("password", d.Password).Required()
	return v.Err()
}
