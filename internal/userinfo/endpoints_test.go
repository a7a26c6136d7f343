package userinfo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	apperrors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPEndpoints", func() {
	var (
		ctx       context.Context
		server    *httptest.Server
		base      *transport.BaseHandler
		endpoints *userinfo.HTTPEndpoints
		lastAuth  string
		lastBody  map[string]interface{}
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = transport.NewBaseHandler(logger.Discard())
		lastAuth = ""
		lastBody = nil

		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/users.info", func(w http.ResponseWriter, r *http.Request) {
			lastAuth = r.Header.Get("Authorization")
			if r.URL.Query().Get("username") != "ann1" && r.URL.Query().Get("userId") != "u1" {
				base.HandleError(w, apperrors.ErrUserNotFound)
				return
			}
			base.WriteJSON(w, http.StatusOK, user.InfoResponse{User: newUser(), Success: true})
		})
		mux.HandleFunc("/api/v1/me", func(w http.ResponseWriter, r *http.Request) {
			lastAuth = r.Header.Get("Authorization")
			base.WriteJSON(w, http.StatusOK, user.InfoResponse{User: newUser(), Success: true})
		})
		mux.HandleFunc("/api/v1/users.setActiveStatus", func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewDecoder(r.Body).Decode(&lastBody)).To(Succeed())
			if lastBody["confirmRelinquish"] != true {
				base.HandleError(w, user.NewLastOwnerError(&user.OwnershipConflict{
					ShouldChangeOwner: true,
					ChangeOwnerRooms:  []string{"general"},
				}))
				return
			}
			base.WriteJSON(w, http.StatusOK, user.StatusResponse{Success: true})
		})
		mux.HandleFunc("/api/v1/users.delete", func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewDecoder(r.Body).Decode(&lastBody)).To(Succeed())
			if lastBody["userId"] == "" {
				base.HandleError(w, apperrors.NewValidationError("Validation failed", apperrors.ErrCodeValidationFailed).
					WithDetails(apperrors.ValidationErrors{Errors: []apperrors.ValidationError{
						{Field: "userId", Message: "userId is required", Code: string(apperrors.ErrCodeValidationFailed)},
						{Field: "reason", Message: "reason must not exceed 10 characters", Code: string(apperrors.ErrCodeValidationFailed)},
					}}))
				return
			}
			base.WriteJSON(w, http.StatusOK, transport.SuccessResponse{Success: false})
		})
		mux.HandleFunc("/api/v1/users.setAdminStatus", func(w http.ResponseWriter, r *http.Request) {
			base.WriteError(w, http.StatusBadGateway, "upstream down")
		})
		mux.HandleFunc("/api/v1/settings.public", func(w http.ResponseWriter, r *http.Request) {
			base.WriteJSON(w, http.StatusOK, settings.PublicSettingsResponse{
				Settings: settings.Snapshot{ShowRealNames: true, ErasureType: settings.ErasureKeep},
				Success:  true,
			})
		})
		server = httptest.NewServer(mux)

		endpoints = userinfo.NewHTTPEndpoints(userinfo.HTTPConfig{
			BaseURL: server.URL + "/api/v1/",
			Token:   "token-123",
			Timeout: 2 * time.Second,
		}, logger.Discard())
	})

	AfterEach(func() {
		server.Close()
	})

	It("fetches a user by handle with the bearer token", func() {
		u, err := endpoints.Info(ctx, user.Lookup{Username: "ann1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(u.ID).To(Equal("u1"))
		Expect(lastAuth).To(Equal("Bearer token-123"))
	})

	It("loads the user behind the token", func() {
		me, err := endpoints.Me(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(me.Username).To(Equal("ann1"))
		Expect(lastAuth).To(Equal("Bearer token-123"))
	})

	It("decodes a not found error", func() {
		_, err := endpoints.Info(ctx, user.Lookup{UserID: "nope"})
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeUserNotFound))
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("decodes the ownership conflict into its typed payload", func() {
		_, err := endpoints.SetActiveStatus(ctx, user.SetActiveStatusRequest{UserID: "u1"})
		conflict, ok := user.AsOwnershipConflict(err)
		Expect(ok).To(BeTrue())
		Expect(conflict.ShouldChangeOwner).To(BeTrue())
		Expect(conflict.ShouldBeRemoved).To(BeFalse())
		Expect(conflict.ChangeOwnerRooms).To(Equal([]string{"general"}))

		result, err := endpoints.SetActiveStatus(ctx, user.SetActiveStatusRequest{UserID: "u1", ConfirmRelinquish: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())
		Expect(lastBody).To(HaveKeyWithValue("activeStatus", false))
	})

	It("passes through an unsuccessful delete result", func() {
		result, err := endpoints.Delete(ctx, user.DeleteRequest{UserID: "u1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeFalse())
		Expect(lastBody).To(HaveKeyWithValue("userId", "u1"))
	})

	It("keeps every field message of a validation error", func() {
		_, err := endpoints.Delete(ctx, user.DeleteRequest{})
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(appErr.Details).To(BeAssignableToTypeOf(apperrors.ValidationErrors{}))
		Expect(appErr.GetDetailedMessage()).To(Equal("userId is required; reason must not exceed 10 characters"))
	})

	It("keeps the decode failure as the cause of an unreadable error body", func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/users.setAdminStatus", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
		})
		html := httptest.NewServer(mux)
		defer html.Close()

		client := userinfo.NewHTTPEndpoints(userinfo.HTTPConfig{BaseURL: html.URL + "/api/v1"}, logger.Discard())
		err := client.SetAdminStatus(ctx, "u1", true)
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeServerUnreachable))
		Expect(appErr.Unwrap()).To(HaveOccurred())
	})

	It("reports an error body without a typed error as an external error", func() {
		err := endpoints.SetAdminStatus(ctx, "u1", true)
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(apperrors.ErrorTypeExternal))
	})

	It("reads public settings", func() {
		snapshot, err := endpoints.CurrentSettings(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(snapshot.ShowRealNames).To(BeTrue())
		Expect(snapshot.ErasureType).To(Equal(settings.ErasureKeep))
	})

	It("reports an unreachable server", func() {
		server.Close()
		_, err := endpoints.Info(ctx, user.Lookup{UserID: "u1"})
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeServerUnreachable))
	})
})

var _ = Describe("ServiceEndpoints", func() {
	It("reports success for calls that return no error", func() {
		svc := &stubUserService{}
		endpoints := userinfo.NewServiceEndpoints(svc, true)

		result, err := endpoints.Delete(context.Background(), user.DeleteRequest{UserID: "u1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())

		_, err = endpoints.Info(context.Background(), user.Lookup{UserID: "u1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(svc.full).To(BeTrue())

		Expect(endpoints.SetAdminStatus(context.Background(), "u1", true)).To(Succeed())
		Expect(svc.admin).To(Equal(&user.SetAdminStatusRequest{UserID: "u1", Admin: true}))
	})

	It("passes errors through", func() {
		svc := &stubUserService{err: apperrors.ErrLastAdmin}
		result, err := userinfo.NewServiceEndpoints(svc, false).SetActiveStatus(context.Background(), user.SetActiveStatusRequest{UserID: "u1"})
		Expect(err).To(MatchError(apperrors.ErrLastAdmin))
		Expect(result.Success).To(BeFalse())
	})
})

type stubUserService struct {
	full  bool
	admin *user.SetAdminStatusRequest
	err   error
}

func (s *stubUserService) Info(ctx context.Context, lookup user.Lookup, full bool) (*user.User, error) {
	s.full = full
	return newUser(), s.err
}

func (s *stubUserService) Delete(ctx context.Context, req user.DeleteRequest) error {
	return s.err
}

func (s *stubUserService) SetActiveStatus(ctx context.Context, req user.SetActiveStatusRequest) (*user.User, error) {
	return newUser(), s.err
}

func (s *stubUserService) SetAdminStatus(ctx context.Context, req user.SetAdminStatusRequest) (*user.User, error) {
	s.admin = &req
	return newUser(), s.err
}
