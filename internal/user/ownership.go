package user

import (
	"encoding/json"
	"fmt"
	"strings"

	errors "github.com/frahmantamala/chat-admin/internal"
)

// OwnershipConflict is carried by USER_LAST_OWNER errors.
type OwnershipConflict struct {
	ShouldChangeOwner bool     `json:"shouldChangeOwner"`
	ShouldBeRemoved   bool     `json:"shouldBeRemoved"`
	ChangeOwnerRooms  []string `json:"changeOwnerRooms"`
	RemovedRooms      []string `json:"removedRooms"`
}

func NewLastOwnerError(conflict *OwnershipConflict) *errors.AppError {
	rooms := append(append([]string{}, conflict.ChangeOwnerRooms...), conflict.RemovedRooms...)
	msg := "user is the last owner of one or more rooms"
	if len(rooms) > 0 {
		msg = fmt.Sprintf("user is the last owner of: %s", strings.Join(rooms, ", "))
	}
	return errors.NewConflictError(msg, errors.ErrCodeUserLastOwner).WithDetails(conflict)
}

// AsOwnershipConflict extracts the conflict payload from err, whether it was
// built in-process or decoded from an API response.
func AsOwnershipConflict(err error) (*OwnershipConflict, bool) {
	appErr, ok := errors.IsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeUserLastOwner {
		return nil, false
	}

	switch details := appErr.Details.(type) {
	case *OwnershipConflict:
		return details, true
	case OwnershipConflict:
		return &details, true
	case nil:
		return &OwnershipConflict{}, true
	}

	raw, err := json.Marshal(appErr.Details)
	if err != nil {
		return &OwnershipConflict{}, true
	}
	var conflict OwnershipConflict
	if err := json.Unmarshal(raw, &conflict); err != nil {
		return &OwnershipConflict{}, true
	}
	return &conflict, true
}
