package user

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/chat-admin/internal"
	roomDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/room"
	"github.com/frahmantamala/chat-admin/internal/settings"
)

// SettingsReader is the part of the settings store the user service consults.
type SettingsReader interface {
	Snapshot() settings.Snapshot
}

type Service struct {
	repo     Repository
	settings SettingsReader
	logger   *slog.Logger
}

func NewService(repo Repository, settings SettingsReader, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		logger:   logger,
	}
}

// Info resolves a user by id, falling back to username. Emails are only kept when full is set.
func (s *Service) Info(ctx context.Context, lookup Lookup, full bool) (*User, error) {
	if err := lookup.Validate(); err != nil {
		return nil, err
	}

	u, err := s.find(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if !full {
		u = u.WithoutEmails()
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.find(ctx, Lookup{UserID: id})
}

func (s *Service) find(ctx context.Context, lookup Lookup) (*User, error) {
	if id := strings.TrimSpace(lookup.UserID); id != "" {
		return s.byID(ctx, id)
	}

	row, err := s.repo.GetByUsername(ctx, strings.TrimSpace(lookup.Username))
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) byID(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// Delete removes a user. Rooms the user is the last owner of block the
// deletion unless the caller confirms relinquishing them.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.byID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if err := s.ensureNotLastAdmin(ctx, u); err != nil {
		return err
	}

	plan, err := s.relinquishment(ctx, u.ID, req.ConfirmRelinquish)
	if err != nil {
		return err
	}

	erasure := s.settings.Snapshot().ErasureType
	if err := s.repo.Delete(ctx, plan, erasure); err != nil {
		s.logger.Error("failed to delete user", "user_id", u.ID, "error", err)
		return errors.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted",
		"user_id", u.ID,
		"username", u.Username,
		"erasure", erasure,
		"transferred_rooms", len(plan.Transfers),
		"removed_rooms", len(plan.Removals))
	return nil
}

// SetActiveStatus activates or deactivates a user. Deactivation follows the same ownership rules as Delete.
func (s *Service) SetActiveStatus(ctx context.Context, req SetActiveStatusRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.byID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.ActiveStatus {
		u.Active = true
		u.Reason = ""
		if err := s.repo.Save(ctx, ToDataModel(u)); err != nil {
			return nil, errors.NewInternalError("failed to activate user", err)
		}
		s.logger.Info("user activated", "user_id", u.ID)
		return u, nil
	}

	if !u.Active {
		return u, nil
	}
	if err := s.ensureNotLastAdmin(ctx, u); err != nil {
		return nil, err
	}

	plan, err := s.relinquishment(ctx, u.ID, req.ConfirmRelinquish)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Deactivate(ctx, plan); err != nil {
		s.logger.Error("failed to deactivate user", "user_id", u.ID, "error", err)
		return nil, errors.NewInternalError("failed to deactivate user", err)
	}

	u.Active = false
	s.logger.Info("user deactivated",
		"user_id", u.ID,
		"transferred_rooms", len(plan.Transfers),
		"removed_rooms", len(plan.Removals))
	return u, nil
}

// SetAdminStatus grants or revokes the admin role.
func (s *Service) SetAdminStatus(ctx context.Context, req SetAdminStatusRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.byID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() == req.Admin {
		return u, nil
	}

	if req.Admin {
		u.Roles = append(u.Roles, RoleAdmin)
	} else {
		if err := s.ensureNotLastAdmin(ctx, u); err != nil {
			return nil, err
		}
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			if r != RoleAdmin {
				roles = append(roles, r)
			}
		}
		u.Roles = roles
	}

	if err := s.repo.Save(ctx, ToDataModel(u)); err != nil {
		return nil, errors.NewInternalError("failed to update user roles", err)
	}

	s.logger.Info("admin status changed", "user_id", u.ID, "admin", req.Admin)
	return u, nil
}

func (s *Service) ensureNotLastAdmin(ctx context.Context, u *User) error {
	if !u.IsAdmin() || !u.Active {
		return nil
	}
	count, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return errors.NewInternalError("failed to count admins", err)
	}
	if count <= 1 {
		return errors.ErrLastAdmin
	}
	return nil
}

// relinquishment works out which owned rooms need a new owner and which are
// left empty. Without confirm a non-empty plan is reported as a conflict.
func (s *Service) relinquishment(ctx context.Context, userID string, confirm bool) (*Relinquishment, error) {
	owned, err := s.repo.ListOwnedSubscriptions(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load subscriptions", err)
	}

	plan := &Relinquishment{UserID: userID}
	for _, sub := range owned {
		room, err := s.repo.GetRoom(ctx, sub.RoomID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load room", err)
		}
		if room == nil || room.Type == roomDatamodel.TypeDirect {
			continue
		}

		members, err := s.repo.ListRoomMembers(ctx, sub.RoomID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load room members", err)
		}

		var others []*roomDatamodel.Subscription
		otherOwner := false
		for _, m := range members {
			if m.UserID == userID {
				continue
			}
			others = append(others, m)
			if m.IsOwner() {
				otherOwner = true
			}
		}

		switch {
		case otherOwner:
		case len(others) == 0:
			plan.Removals = append(plan.Removals, room)
		default:
			plan.Transfers = append(plan.Transfers, OwnershipTransfer{
				RoomID:         room.ID,
				RoomName:       room.Name,
				SubscriptionID: others[0].ID,
				NewOwnerID:     others[0].UserID,
			})
		}
	}

	if !plan.Empty() && !confirm {
		return nil, NewLastOwnerError(plan.Conflict())
	}
	return plan, nil
}
