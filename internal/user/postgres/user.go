package postgres

import (
	"context"
	"errors"
	"fmt"

	roomDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/room"
	userDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Roles are stored as a JSON array, so a quoted LIKE match is exact per role.
func (r *UserRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("active = ? AND roles LIKE ?", true, `%"`+user.RoleAdmin+`"%`).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) ListOwnedSubscriptions(ctx context.Context, userID string) ([]*roomDatamodel.Subscription, error) {
	var subs []*roomDatamodel.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND roles LIKE ?", userID, `%"`+roomDatamodel.RoleOwner+`"%`).
		Order("created_at ASC").
		Find(&subs).Error
	return subs, err
}

// ListRoomMembers returns subscriptions oldest first.
func (r *UserRepository) ListRoomMembers(ctx context.Context, roomID string) ([]*roomDatamodel.Subscription, error) {
	var subs []*roomDatamodel.Subscription
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&subs).Error
	return subs, err
}

func (r *UserRepository) GetRoom(ctx context.Context, roomID string) (*roomDatamodel.Room, error) {
	var room roomDatamodel.Room
	err := r.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *UserRepository) Deactivate(ctx context.Context, plan *user.Relinquishment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := relinquish(tx, plan); err != nil {
			return err
		}
		return tx.Model(&userDatamodel.User{}).
			Where("id = ?", plan.UserID).
			Update("active", false).Error
	})
}

func (r *UserRepository) Delete(ctx context.Context, plan *user.Relinquishment, erasure settings.ErasureType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := relinquish(tx, plan); err != nil {
			return err
		}

		switch erasure {
		case settings.ErasureDelete:
			if err := tx.Where("user_id = ?", plan.UserID).Delete(&roomDatamodel.Message{}).Error; err != nil {
				return fmt.Errorf("delete messages: %w", err)
			}
		case settings.ErasureUnlink:
			if err := tx.Model(&roomDatamodel.Message{}).
				Where("user_id = ?", plan.UserID).
				Updates(map[string]interface{}{"user_id": "", "username": user.UnlinkedUsername}).Error; err != nil {
				return fmt.Errorf("unlink messages: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", plan.UserID).Delete(&roomDatamodel.Subscription{}).Error; err != nil {
			return fmt.Errorf("delete subscriptions: %w", err)
		}
		return tx.Where("id = ?", plan.UserID).Delete(&userDatamodel.User{}).Error
	})
}

func relinquish(tx *gorm.DB, plan *user.Relinquishment) error {
	for _, t := range plan.Transfers {
		var sub roomDatamodel.Subscription
		if err := tx.Where("id = ?", t.SubscriptionID).First(&sub).Error; err != nil {
			return fmt.Errorf("load subscription %s: %w", t.SubscriptionID, err)
		}
		if !sub.IsOwner() {
			sub.Roles = append(sub.Roles, roomDatamodel.RoleOwner)
			if err := tx.Save(&sub).Error; err != nil {
				return fmt.Errorf("promote owner of room %s: %w", t.RoomID, err)
			}
		}
	}

	for _, room := range plan.Removals {
		if err := tx.Where("room_id = ?", room.ID).Delete(&roomDatamodel.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages of room %s: %w", room.ID, err)
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&roomDatamodel.Subscription{}).Error; err != nil {
			return fmt.Errorf("delete subscriptions of room %s: %w", room.ID, err)
		}
		if err := tx.Where("id = ?", room.ID).Delete(&roomDatamodel.Room{}).Error; err != nil {
			return fmt.Errorf("delete room %s: %w", room.ID, err)
		}
	}
	return nil
}
