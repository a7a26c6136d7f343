package userinfo

import (
	"context"
	"strings"

	"github.com/frahmantamala/chat-admin/internal/user"
)

// OwnerChangeOptions customises the ownership-conflict modal.
type OwnerChangeOptions struct {
	ContentTitle string
	ConfirmLabel string
}

// ConfirmOwnerChanges wraps a mutating call so that a last-owner conflict
// turns into a confirmation modal. Accepting it re-issues the call with
// confirm set. Other errors become an error toast.
func ConfirmOwnerChanges(action func(ctx context.Context, confirm bool) error, opts OwnerChangeOptions, p *ActionProps) func(context.Context) {
	return func(ctx context.Context) {
		err := action(ctx, false)
		if err == nil {
			return
		}

		conflict, ok := user.AsOwnershipConflict(err)
		if !ok {
			p.Presenter.Toast(Toast{Type: ToastError, Message: errorMessage(err)})
			return
		}

		p.Logger.Info("ownership conflict, asking for confirmation",
			"user_id", p.UserID,
			"change_owner", conflict.ShouldChangeOwner,
			"remove", conflict.ShouldBeRemoved)

		p.Presenter.SetModal(ownerChangeModal(conflict, opts, p,
			func() {
				p.Presenter.CloseModal()
				if err := action(ctx, true); err != nil {
					p.Presenter.Toast(Toast{Type: ToastError, Message: errorMessage(err)})
				}
			},
			func() {
				p.Presenter.CloseModal()
				p.OnChange()
			},
		))
	}
}

func ownerChangeModal(conflict *user.OwnershipConflict, opts OwnerChangeOptions, p *ActionProps, onConfirm, onCancel func()) OwnerChangeWarningModal {
	contentTitle := opts.ContentTitle
	if contentTitle == "" {
		contentTitle = p.T.T("Last_Owner_Warning")
	}
	confirmLabel := opts.ConfirmLabel
	if confirmLabel == "" {
		confirmLabel = p.T.T("Ok")
	}

	var lines []string
	if conflict.ShouldChangeOwner {
		lines = append(lines, p.T.T("Owner_Change_Warning", strings.Join(conflict.ChangeOwnerRooms, ", ")))
	}
	if conflict.ShouldBeRemoved {
		lines = append(lines, p.T.T("Rooms_Removed_Warning", strings.Join(conflict.RemovedRooms, ", ")))
	}

	return OwnerChangeWarningModal{
		Title:             p.T.T("Are_you_sure"),
		ContentTitle:      contentTitle,
		ShouldChangeOwner: conflict.ShouldChangeOwner,
		ShouldBeRemoved:   conflict.ShouldBeRemoved,
		ChangeOwnerRooms:  conflict.ChangeOwnerRooms,
		RemovedRooms:      conflict.RemovedRooms,
		Lines:             lines,
		ConfirmLabel:      confirmLabel,
		CancelLabel:       p.T.T("Cancel"),
		OnConfirm:         onConfirm,
		OnCancel:          onCancel,
	}
}
