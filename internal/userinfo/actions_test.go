package userinfo_test

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var allActions = []struct {
	key        userinfo.ActionKey
	permission string
}{
	{userinfo.ActionDirectMessage, auth.PermCreateDirectMessage},
	{userinfo.ActionEditUser, auth.PermEditOtherUserInfo},
	{userinfo.ActionMakeAdmin, auth.PermAssignAdminRole},
	{userinfo.ActionDelete, auth.PermDeleteUser},
	{userinfo.ActionChangeActiveStatus, auth.PermEditOtherUserActiveStatus},
}

func allPermissions() []string {
	perms := make([]string, 0, len(allActions))
	for _, a := range allActions {
		perms = append(perms, a.permission)
	}
	return perms
}

var _ = Describe("Actions", func() {
	var (
		ctx       context.Context
		endpoints *FakeEndpoints
		presenter *RecordingPresenter
		router    *RecordingRouter
		changes   int
		props     userinfo.ActionProps
	)

	BeforeEach(func() {
		ctx = context.Background()
		endpoints = NewFakeEndpoints(newUser())
		presenter = &RecordingPresenter{}
		router = &RecordingRouter{}
		changes = 0
		props = userinfo.ActionProps{
			UserID:    "u1",
			Username:  "ann1",
			Active:    true,
			Erasure:   settings.ErasureDelete,
			Endpoints: endpoints,
			Presenter: presenter,
			Router:    router,
			T:         userinfo.NewTranslator("en"),
			OnChange:  func() { changes++ },
			Logger:    logger.Discard(),
		}
	})

	get := func(key userinfo.ActionKey) userinfo.ActionDescriptor {
		action, ok := userinfo.NewActions(props).Get(key, allPermissions())
		Expect(ok).To(BeTrue())
		return action
	}

	Describe("List", func() {
		It("returns exactly the permitted actions in a stable order for every permission subset", func() {
			for mask := 0; mask < 1<<len(allActions); mask++ {
				var perms []string
				var expected []userinfo.ActionKey
				for i, a := range allActions {
					if mask&(1<<i) != 0 {
						perms = append(perms, a.permission)
						expected = append(expected, a.key)
					}
				}

				var got []userinfo.ActionKey
				for _, d := range userinfo.NewActions(props).List(perms) {
					Expect(d.Visible).To(BeTrue())
					got = append(got, d.Key)
				}
				Expect(got).To(Equal(expected), "permission mask %05b", mask)
			}
		})

		It("ignores unrelated permissions", func() {
			list := userinfo.NewActions(props).List([]string{auth.PermRunVersionCheck, "view-room"})
			Expect(list).To(BeEmpty())
		})

		It("exposes the permission gating each action", func() {
			for _, a := range allActions {
				perm, ok := userinfo.RequiredPermission(a.key)
				Expect(ok).To(BeTrue())
				Expect(perm).To(Equal(a.permission))
			}
			_, ok := userinfo.RequiredPermission("unknown")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("labels", func() {
		It("reflects the admin state", func() {
			Expect(get(userinfo.ActionMakeAdmin).Label).To(Equal("Make Admin"))
			props.Admin = true
			Expect(get(userinfo.ActionMakeAdmin).Label).To(Equal("Remove Admin"))
		})

		It("reflects the target active state", func() {
			Expect(get(userinfo.ActionChangeActiveStatus).Label).To(Equal("Deactivate"))
			props.Active = false
			Expect(get(userinfo.ActionChangeActiveStatus).Label).To(Equal("Activate"))
		})
	})

	Describe("navigation", func() {
		It("opens a direct message keyed by handle", func() {
			get(userinfo.ActionDirectMessage).Handler(ctx)
			Expect(router.route).To(Equal(userinfo.RouteDirect))
			Expect(router.params).To(Equal(map[string]string{"rid": "ann1"}))
		})

		It("opens the edit screen keyed by id", func() {
			get(userinfo.ActionEditUser).Handler(ctx)
			Expect(router.route).To(Equal(userinfo.RouteAdminUsers))
			Expect(router.params).To(Equal(map[string]string{"context": "edit", "id": "u1"}))
		})
	})

	Describe("make admin", func() {
		It("toggles the role and refreshes", func() {
			get(userinfo.ActionMakeAdmin).Handler(ctx)
			Expect(endpoints.adminCalls).To(Equal([]bool{true}))
			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{Type: userinfo.ToastSuccess, Message: "User is now an admin"}))
			Expect(changes).To(Equal(1))
		})

		It("shows the server message when the call fails", func() {
			props.Admin = true
			endpoints.adminErr = apperrors.ErrLastAdmin
			get(userinfo.ActionMakeAdmin).Handler(ctx)
			Expect(endpoints.adminCalls).To(Equal([]bool{false}))
			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{Type: userinfo.ToastError, Message: apperrors.ErrLastAdmin.Message}))
			Expect(changes).To(BeZero())
		})
	})

	Describe("delete", func() {
		It("warns with the erasure-specific text", func() {
			props.Erasure = settings.ErasureUnlink
			get(userinfo.ActionDelete).Handler(ctx)

			modal, ok := presenter.Last().(userinfo.DeleteWarningModal)
			Expect(ok).To(BeTrue())
			Expect(modal.Text).To(ContainSubstring("remove the user name"))
			Expect(endpoints.deleteCalls).To(BeEmpty())
		})

		It("does nothing but close on cancel", func() {
			get(userinfo.ActionDelete).Handler(ctx)
			presenter.Last().(userinfo.DeleteWarningModal).OnCancel()
			Expect(presenter.closed).To(Equal(1))
			Expect(endpoints.deleteCalls).To(BeEmpty())
			Expect(changes).To(BeZero())
		})

		It("shows a success modal and refreshes once after it is dismissed", func() {
			get(userinfo.ActionDelete).Handler(ctx)
			presenter.Last().(userinfo.DeleteWarningModal).OnConfirm()

			Expect(endpoints.deleteCalls).To(Equal([]user.DeleteRequest{{UserID: "u1"}}))
			success, ok := presenter.Last().(userinfo.SuccessModal)
			Expect(ok).To(BeTrue())
			Expect(success.Text).To(Equal("User has been deleted"))
			Expect(changes).To(BeZero())

			success.OnClose()
			Expect(changes).To(Equal(1))
		})

		It("closes silently when the server reports no success", func() {
			endpoints.deleteResults = []userinfo.Result{{Success: false}}
			get(userinfo.ActionDelete).Handler(ctx)
			presenter.Last().(userinfo.DeleteWarningModal).OnConfirm()

			Expect(presenter.closed).To(Equal(1))
			Expect(presenter.toasts).To(BeEmpty())
			Expect(presenter.Last()).To(BeAssignableToTypeOf(userinfo.DeleteWarningModal{}))
			Expect(changes).To(BeZero())
		})

		It("lists every field of a validation failure in the toast", func() {
			endpoints.deleteErrs = []error{
				apperrors.NewValidationError("Validation failed", apperrors.ErrCodeValidationFailed).
					WithDetails(apperrors.ValidationErrors{Errors: []apperrors.ValidationError{
						{Field: "userId", Message: "userId is required"},
						{Field: "reason", Message: "reason is too long"},
					}}),
			}
			get(userinfo.ActionDelete).Handler(ctx)
			presenter.Last().(userinfo.DeleteWarningModal).OnConfirm()

			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{
				Type:    userinfo.ToastError,
				Message: "userId is required; reason is too long",
			}))
		})

		It("toasts other errors and leaves the warning open", func() {
			endpoints.deleteErrs = []error{errors.New("connection reset")}
			get(userinfo.ActionDelete).Handler(ctx)
			presenter.Last().(userinfo.DeleteWarningModal).OnConfirm()

			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{Type: userinfo.ToastError, Message: "connection reset"}))
			Expect(presenter.closed).To(BeZero())
			Expect(changes).To(BeZero())
		})

		It("re-issues with confirmation after an ownership conflict", func() {
			endpoints.deleteErrs = []error{user.NewLastOwnerError(&user.OwnershipConflict{
				ShouldBeRemoved: true,
				RemovedRooms:    []string{"lonely"},
			})}
			get(userinfo.ActionDelete).Handler(ctx)
			presenter.Last().(userinfo.DeleteWarningModal).OnConfirm()

			conflict, ok := presenter.Last().(userinfo.OwnerChangeWarningModal)
			Expect(ok).To(BeTrue())
			Expect(conflict.ShouldBeRemoved).To(BeTrue())
			Expect(conflict.ShouldChangeOwner).To(BeFalse())
			Expect(conflict.Lines).To(ConsistOf(ContainSubstring("lonely")))

			conflict.OnConfirm()
			Expect(endpoints.deleteCalls).To(Equal([]user.DeleteRequest{
				{UserID: "u1"},
				{UserID: "u1", ConfirmRelinquish: true},
			}))
			success, ok := presenter.Last().(userinfo.SuccessModal)
			Expect(ok).To(BeTrue())
			success.OnClose()
			Expect(changes).To(Equal(1))
		})
	})

	Describe("change active status", func() {
		It("activates without confirmation", func() {
			props.Active = false
			get(userinfo.ActionChangeActiveStatus).Handler(ctx)

			Expect(endpoints.activeCalls).To(Equal([]user.SetActiveStatusRequest{{UserID: "u1", ActiveStatus: true}}))
			Expect(presenter.modals).To(BeEmpty())
			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{Type: userinfo.ToastSuccess, Message: "User has been activated"}))
			Expect(changes).To(Equal(1))
		})

		It("turns an ownership conflict into a confirmation and re-issues on accept", func() {
			endpoints.activeErrs = []error{user.NewLastOwnerError(&user.OwnershipConflict{
				ShouldChangeOwner: true,
				ShouldBeRemoved:   false,
				ChangeOwnerRooms:  []string{"general"},
			})}
			get(userinfo.ActionChangeActiveStatus).Handler(ctx)

			modal, ok := presenter.Last().(userinfo.OwnerChangeWarningModal)
			Expect(ok).To(BeTrue())
			Expect(modal.ShouldChangeOwner).To(BeTrue())
			Expect(modal.ShouldBeRemoved).To(BeFalse())
			Expect(modal.ChangeOwnerRooms).To(Equal([]string{"general"}))
			Expect(modal.ConfirmLabel).To(Equal("Yes, deactivate it!"))
			Expect(changes).To(BeZero())

			modal.OnConfirm()
			Expect(endpoints.activeCalls).To(Equal([]user.SetActiveStatusRequest{
				{UserID: "u1", ActiveStatus: false},
				{UserID: "u1", ActiveStatus: false, ConfirmRelinquish: true},
			}))
			Expect(presenter.closed).To(Equal(1))
			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{Type: userinfo.ToastSuccess, Message: "User has been deactivated"}))
			Expect(changes).To(Equal(1))
		})

		It("closes and refreshes when the conflict is declined", func() {
			endpoints.activeErrs = []error{user.NewLastOwnerError(&user.OwnershipConflict{ShouldChangeOwner: true})}
			get(userinfo.ActionChangeActiveStatus).Handler(ctx)

			presenter.Last().(userinfo.OwnerChangeWarningModal).OnCancel()
			Expect(endpoints.activeCalls).To(HaveLen(1))
			Expect(presenter.closed).To(Equal(1))
			Expect(changes).To(Equal(1))
		})

		It("toasts an error raised by the confirmed call", func() {
			endpoints.activeErrs = []error{
				user.NewLastOwnerError(&user.OwnershipConflict{ShouldChangeOwner: true}),
				apperrors.ErrLastAdmin,
			}
			get(userinfo.ActionChangeActiveStatus).Handler(ctx)
			presenter.Last().(userinfo.OwnerChangeWarningModal).OnConfirm()

			Expect(presenter.toasts).To(ConsistOf(userinfo.Toast{Type: userinfo.ToastError, Message: apperrors.ErrLastAdmin.Message}))
			Expect(changes).To(BeZero())
		})
	})
})
