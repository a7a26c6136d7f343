package userinfo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	apperrors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var handler *userinfo.Handler

	BeforeEach(func() {
		handler = userinfo.NewHandler(
			transport.NewBaseHandler(logger.Discard()),
			&stubUserService{},
			NewFakeSettings(settings.Snapshot{ShowRealNames: true}),
		)
	})

	request := func(query string, viewer *apperrors.Viewer) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users.panel"+query, nil)
		if viewer != nil {
			req = req.WithContext(apperrors.ContextWithViewer(req.Context(), viewer))
		}
		rec := httptest.NewRecorder()
		handler.GetPanel(rec, req)
		return rec
	}

	It("renders the panel for the viewer's permissions", func() {
		rec := request("?userId=u1", &apperrors.Viewer{ID: "admin", Permissions: []string{auth.PermDeleteUser}})
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp struct {
			View struct {
				State   string `json:"state"`
				Profile struct {
					DisplayName string `json:"displayName"`
				} `json:"profile"`
				Actions []struct {
					Key string `json:"key"`
				} `json:"actions"`
			} `json:"view"`
			Success bool `json:"success"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.View.State).To(Equal("LOADED"))
		Expect(resp.View.Profile.DisplayName).To(Equal("Ann"))
		Expect(resp.View.Actions).To(HaveLen(1))
		Expect(resp.View.Actions[0].Key).To(Equal("delete"))
	})

	It("requires a lookup key", func() {
		rec := request("", &apperrors.Viewer{ID: "admin"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("requires a viewer", func() {
		rec := request("?userId=u1", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
