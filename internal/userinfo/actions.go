package userinfo

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
)

type ActionKey string

const (
	ActionDirectMessage      ActionKey = "directMessage"
	ActionEditUser           ActionKey = "editUser"
	ActionMakeAdmin          ActionKey = "makeAdmin"
	ActionDelete             ActionKey = "delete"
	ActionChangeActiveStatus ActionKey = "changeActiveStatus"
)

// ActionDescriptor is one entry of the action menu.
type ActionDescriptor struct {
	Key     ActionKey             `json:"key"`
	Icon    string                `json:"icon"`
	Label   string                `json:"label"`
	Visible bool                  `json:"visible"`
	Handler func(context.Context) `json:"-"`
}

// ActionProps is everything an action needs about the target and the host surfaces.
type ActionProps struct {
	UserID    string
	Username  string
	Active    bool
	Admin     bool
	Erasure   settings.ErasureType
	Endpoints Endpoints
	Presenter Presenter
	Router    Router
	T         *Translator
	OnChange  func()
	Logger    *slog.Logger
}

type actionSpec struct {
	key        ActionKey
	permission string
	build      func(p *ActionProps) ActionDescriptor
}

// actionTable fixes the order of the menu.
var actionTable = []actionSpec{
	{key: ActionDirectMessage, permission: auth.PermCreateDirectMessage, build: directMessageAction},
	{key: ActionEditUser, permission: auth.PermEditOtherUserInfo, build: editUserAction},
	{key: ActionMakeAdmin, permission: auth.PermAssignAdminRole, build: makeAdminAction},
	{key: ActionDelete, permission: auth.PermDeleteUser, build: deleteUserAction},
	{key: ActionChangeActiveStatus, permission: auth.PermEditOtherUserActiveStatus, build: changeActiveStatusAction},
}

// RequiredPermission returns the permission gating key.
func RequiredPermission(key ActionKey) (string, bool) {
	for _, spec := range actionTable {
		if spec.key == key {
			return spec.permission, true
		}
	}
	return "", false
}

type Actions struct {
	props   ActionProps
	checker *auth.DefaultPermissionChecker
}

func NewActions(props ActionProps) *Actions {
	if props.Presenter == nil {
		props.Presenter = nopPresenter{}
	}
	if props.Router == nil {
		props.Router = nopRouter{}
	}
	if props.T == nil {
		props.T = NewTranslator("en")
	}
	if props.OnChange == nil {
		props.OnChange = func() {}
	}
	if props.Logger == nil {
		props.Logger = slog.Default()
	}
	return &Actions{props: props, checker: auth.NewPermissionChecker()}
}

// List returns the actions permitted by permissions, in table order. Others are absent, not disabled.
func (a *Actions) List(permissions []string) []ActionDescriptor {
	var out []ActionDescriptor
	for _, spec := range actionTable {
		if !a.checker.HasPermission(permissions, spec.permission) {
			continue
		}
		out = append(out, spec.build(&a.props))
	}
	return out
}

// Get returns a single permitted action.
func (a *Actions) Get(key ActionKey, permissions []string) (ActionDescriptor, bool) {
	for _, d := range a.List(permissions) {
		if d.Key == key {
			return d, true
		}
	}
	return ActionDescriptor{}, false
}

func directMessageAction(p *ActionProps) ActionDescriptor {
	return ActionDescriptor{
		Key:     ActionDirectMessage,
		Icon:    "chat",
		Label:   p.T.T("Direct_Message"),
		Visible: true,
		Handler: func(ctx context.Context) {
			p.Router.Push(RouteDirect, map[string]string{"rid": p.Username})
		},
	}
}

func editUserAction(p *ActionProps) ActionDescriptor {
	return ActionDescriptor{
		Key:     ActionEditUser,
		Icon:    "edit",
		Label:   p.T.T("Edit"),
		Visible: true,
		Handler: func(ctx context.Context) {
			p.Router.Push(RouteAdminUsers, map[string]string{"context": "edit", "id": p.UserID})
		},
	}
}

func makeAdminAction(p *ActionProps) ActionDescriptor {
	label := p.T.T("Make_Admin")
	if p.Admin {
		label = p.T.T("Remove_Admin")
	}
	return ActionDescriptor{
		Key:     ActionMakeAdmin,
		Icon:    "key",
		Label:   label,
		Visible: true,
		Handler: func(ctx context.Context) {
			if err := p.Endpoints.SetAdminStatus(ctx, p.UserID, !p.Admin); err != nil {
				p.Presenter.Toast(Toast{Type: ToastError, Message: errorMessage(err)})
				return
			}
			msg := "User_is_now_an_admin"
			if p.Admin {
				msg = "User_is_no_longer_an_admin"
			}
			p.Presenter.Toast(Toast{Type: ToastSuccess, Message: p.T.T(msg)})
			p.OnChange()
		},
	}
}

func deleteUserAction(p *ActionProps) ActionDescriptor {
	erasure := p.Erasure
	if !erasure.Valid() {
		erasure = settings.ErasureDelete
	}
	warning := p.T.T("Delete_User_Warning_" + string(erasure))

	deleteUser := func(ctx context.Context, confirm bool) error {
		result, err := p.Endpoints.Delete(ctx, user.DeleteRequest{UserID: p.UserID, ConfirmRelinquish: confirm})
		if err != nil {
			return err
		}
		if !result.Success {
			p.Logger.Warn("delete reported no success, closing without feedback", "user_id", p.UserID)
			p.Presenter.CloseModal()
			return nil
		}
		p.Presenter.SetModal(SuccessModal{
			Title:      p.T.T("Deleted"),
			Text:       p.T.T("User_has_been_deleted"),
			CloseLabel: p.T.T("Ok"),
			OnClose: func() {
				p.Presenter.CloseModal()
				p.OnChange()
			},
		})
		return nil
	}

	confirmed := ConfirmOwnerChanges(deleteUser, OwnerChangeOptions{
		ContentTitle: warning,
		ConfirmLabel: p.T.T("Delete"),
	}, p)

	return ActionDescriptor{
		Key:     ActionDelete,
		Icon:    "trash",
		Label:   p.T.T("Delete"),
		Visible: true,
		Handler: func(ctx context.Context) {
			p.Presenter.SetModal(DeleteWarningModal{
				Title:        p.T.T("Are_you_sure"),
				Text:         warning,
				ConfirmLabel: p.T.T("Delete"),
				CancelLabel:  p.T.T("Cancel"),
				OnConfirm:    func() { confirmed(ctx) },
				OnCancel:     p.Presenter.CloseModal,
			})
		},
	}
}

func changeActiveStatusAction(p *ActionProps) ActionDescriptor {
	label := p.T.T("Activate")
	msg := "User_has_been_activated"
	if p.Active {
		label = p.T.T("Deactivate")
		msg = "User_has_been_deactivated"
	}

	changeActiveStatus := func(ctx context.Context, confirm bool) error {
		result, err := p.Endpoints.SetActiveStatus(ctx, user.SetActiveStatusRequest{
			UserID:            p.UserID,
			ActiveStatus:      !p.Active,
			ConfirmRelinquish: confirm,
		})
		if err != nil {
			return err
		}
		if result.Success {
			p.Presenter.Toast(Toast{Type: ToastSuccess, Message: p.T.T(msg)})
			p.OnChange()
		}
		return nil
	}

	return ActionDescriptor{
		Key:     ActionChangeActiveStatus,
		Icon:    "user",
		Label:   label,
		Visible: true,
		Handler: ConfirmOwnerChanges(changeActiveStatus, OwnerChangeOptions{
			ConfirmLabel: p.T.T("Yes_deactivate_it"),
		}, p),
	}
}

// errorMessage is the text shown in an error toast. Validation failures list every field.
func errorMessage(err error) string {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr.GetDetailedMessage()
	}
	return err.Error()
}
