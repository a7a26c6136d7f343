package userinfo_test

import (
	"context"

	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Panel", func() {
	var (
		ctx       context.Context
		endpoints *FakeEndpoints
		source    *FakeSettings
		presenter *RecordingPresenter
		panel     *userinfo.Panel
		parent    int
	)

	newPanel := func(lookup user.Lookup, perms []string) *userinfo.Panel {
		return userinfo.NewPanel(userinfo.PanelConfig{
			Lookup:      lookup,
			Permissions: perms,
			Endpoints:   endpoints,
			Settings:    source,
			Presenter:   presenter,
			Logger:      logger.Discard(),
			OnChange:    func() { parent++ },
		})
	}

	BeforeEach(func() {
		ctx = context.Background()
		other := &user.User{ID: "u2", Username: "bob", Name: "Bob", Active: true}
		endpoints = NewFakeEndpoints(newUser(), other)
		source = NewFakeSettings(settings.Snapshot{ErasureType: settings.ErasureDelete})
		presenter = &RecordingPresenter{}
		parent = 0
		panel = newPanel(user.Lookup{UserID: "u1"}, allPermissions())
	})

	AfterEach(func() {
		panel.Unmount()
	})

	It("starts in the loading state", func() {
		Expect(panel.View().State).To(Equal(userinfo.StateLoading))
	})

	It("loads the profile and the permitted actions", func() {
		view := panel.Mount(ctx)
		Expect(view.State).To(Equal(userinfo.StateLoaded))
		Expect(view.Profile.Handle).To(Equal("ann1"))
		Expect(view.Actions).To(HaveLen(5))
		Expect(view.Error).To(BeEmpty())
	})

	It("looks up by handle when no id is given", func() {
		panel = newPanel(user.Lookup{Username: "bob"}, nil)
		view := panel.Mount(ctx)
		Expect(view.State).To(Equal(userinfo.StateLoaded))
		Expect(view.Profile.ID).To(Equal("u2"))
		Expect(view.Actions).To(BeEmpty())
	})

	It("renders the not found message for an unknown user", func() {
		panel = newPanel(user.Lookup{UserID: "missing"}, allPermissions())
		view := panel.Mount(ctx)
		Expect(view.State).To(Equal(userinfo.StateError))
		Expect(view.Error).To(Equal("User not found"))
		Expect(view.Profile).To(BeNil())
		Expect(view.Actions).To(BeEmpty())
	})

	It("errors without a lookup key", func() {
		panel = newPanel(user.Lookup{}, allPermissions())
		Expect(panel.Mount(ctx).State).To(Equal(userinfo.StateError))
	})

	It("subscribes on mount and unsubscribes on unmount", func() {
		panel.Mount(ctx)
		Expect(source.Listeners()).To(Equal(1))
		panel.Unmount()
		Expect(source.Listeners()).To(BeZero())
	})

	It("re-derives the profile when settings change", func() {
		Expect(panel.Mount(ctx).Profile.DisplayName).To(Equal("ann1"))
		source.Set(settings.Snapshot{ShowRealNames: true, ErasureType: settings.ErasureDelete})
		Expect(panel.View().Profile.DisplayName).To(Equal("Ann"))
	})

	It("bumps the generation and refetches on change", func() {
		first := panel.Mount(ctx).Generation
		panel.OnChange()
		Expect(parent).To(Equal(1))
		Expect(panel.View().Generation).To(BeNumerically(">", first))
		Expect(panel.View().State).To(Equal(userinfo.StateLoaded))
	})

	It("refreshes after a mutating action", func() {
		view := panel.Mount(ctx)
		endpoints.users["u1"].Roles = []string{user.RoleUser, user.RoleAdmin}

		var makeAdmin userinfo.ActionDescriptor
		for _, a := range view.Actions {
			if a.Key == userinfo.ActionMakeAdmin {
				makeAdmin = a
			}
		}
		makeAdmin.Handler(ctx)

		Expect(parent).To(Equal(1))
		Expect(panel.View().Profile.Admin).To(BeTrue())
	})

	It("discards the result of a stale fetch", func() {
		gate := make(chan struct{})
		endpoints.gates["u1"] = gate

		done := make(chan userinfo.View)
		go func() {
			defer GinkgoRecover()
			done <- panel.Mount(ctx)
		}()
		Eventually(endpoints.started).Should(Receive(Equal("u1")))

		latest := panel.SetLookup(ctx, user.Lookup{UserID: "u2"})
		Expect(latest.State).To(Equal(userinfo.StateLoaded))
		Expect(latest.Profile.ID).To(Equal("u2"))

		close(gate)
		var stale userinfo.View
		Eventually(done).Should(Receive(&stale))
		Expect(stale.Profile.ID).To(Equal("u2"))
		Expect(panel.View().Profile.ID).To(Equal("u2"))
		Expect(panel.View().Generation).To(Equal(panel.Generation()))
	})
})
