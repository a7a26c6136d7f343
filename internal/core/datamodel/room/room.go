package room

import "time"

const RoleOwner = "owner"

const (
	TypeChannel = "c"
	TypePrivate = "p"
	TypeDirect  = "d"
)

type Room struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	Type      string    `gorm:"column:type;default:c"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Room) TableName() string {
	return "rooms"
}

// Subscription is a user's membership in a room.
type Subscription struct {
	ID        string    `gorm:"primaryKey;column:id"`
	RoomID    string    `gorm:"column:room_id;index;not null"`
	UserID    string    `gorm:"column:user_id;index;not null"`
	Roles     []string  `gorm:"column:roles;type:text;serializer:json"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) IsOwner() bool {
	for _, r := range s.Roles {
		if r == RoleOwner {
			return true
		}
	}
	return false
}

type Message struct {
	ID        string    `gorm:"primaryKey;column:id"`
	RoomID    string    `gorm:"column:room_id;index;not null"`
	UserID    string    `gorm:"column:user_id;index"`
	Username  string    `gorm:"column:username"`
	Text      string    `gorm:"column:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
