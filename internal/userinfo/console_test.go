package userinfo_test

import (
	"bytes"
	"context"
	"strings"

	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Console", func() {
	var (
		out       *bytes.Buffer
		endpoints *FakeEndpoints
		changes   int
	)

	run := func(presenter userinfo.Presenter, key userinfo.ActionKey) {
		actions := userinfo.NewActions(userinfo.ActionProps{
			UserID:    "u1",
			Username:  "ann1",
			Active:    true,
			Erasure:   settings.ErasureKeep,
			Endpoints: endpoints,
			Presenter: presenter,
			Router:    userinfo.NewConsoleRouter("https://chat.example.com/", out),
			OnChange:  func() { changes++ },
			Logger:    logger.Discard(),
		})
		action, ok := actions.Get(key, allPermissions())
		Expect(ok).To(BeTrue())
		action.Handler(context.Background())
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
		endpoints = NewFakeEndpoints(newUser())
		changes = 0
	})

	It("deletes after an interactive yes", func() {
		run(userinfo.NewConsolePresenter(strings.NewReader("y\n"), out, false), userinfo.ActionDelete)
		Expect(endpoints.deleteCalls).To(HaveLen(1))
		Expect(out.String()).To(ContainSubstring("messages will remain visible"))
		Expect(out.String()).To(ContainSubstring("User has been deleted"))
		Expect(changes).To(Equal(1))
	})

	It("cancels on anything but yes", func() {
		run(userinfo.NewConsolePresenter(strings.NewReader("\n"), out, false), userinfo.ActionDelete)
		Expect(endpoints.deleteCalls).To(BeEmpty())
		Expect(changes).To(BeZero())
	})

	It("cancels when input ends", func() {
		run(userinfo.NewConsolePresenter(strings.NewReader(""), out, false), userinfo.ActionDelete)
		Expect(endpoints.deleteCalls).To(BeEmpty())
	})

	It("confirms an ownership conflict with --yes", func() {
		endpoints.activeErrs = []error{user.NewLastOwnerError(&user.OwnershipConflict{
			ShouldChangeOwner: true,
			ChangeOwnerRooms:  []string{"general"},
		})}
		run(userinfo.NewConsolePresenter(strings.NewReader(""), out, true), userinfo.ActionChangeActiveStatus)

		Expect(endpoints.activeCalls).To(HaveLen(2))
		Expect(endpoints.activeCalls[1].ConfirmRelinquish).To(BeTrue())
		Expect(out.String()).To(ContainSubstring("general"))
		Expect(out.String()).To(ContainSubstring("[success] User has been deactivated"))
		Expect(changes).To(Equal(1))
	})

	It("prints admin urls for navigation", func() {
		run(userinfo.NewConsolePresenter(strings.NewReader(""), out, false), userinfo.ActionDirectMessage)
		run(userinfo.NewConsolePresenter(strings.NewReader(""), out, false), userinfo.ActionEditUser)
		Expect(out.String()).To(Equal("https://chat.example.com/direct/ann1\nhttps://chat.example.com/admin/users/edit/u1\n"))
	})
})
