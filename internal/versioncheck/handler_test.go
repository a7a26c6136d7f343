package versioncheck_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/chat-admin/internal/core/events"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Version Check Handler", func() {
	var (
		repo    *MockRepository
		fetcher *MockFetcher
		handler *versioncheck.Handler
	)

	BeforeEach(func() {
		repo = &MockRepository{}
		fetcher = &MockFetcher{versions: []string{"6.2.1"}}
		service := versioncheck.NewService(repo, fetcher,
			versioncheck.NewScheduler(logger.Discard(), time.UTC),
			events.NewEventBus(logger.Discard()),
			versioncheck.Config{CurrentVersion: "6.1.0"},
			logger.Discard())
		handler = versioncheck.NewHandler(transport.NewBaseHandler(logger.Discard()), service, versioncheck.NewHub(logger.Discard()))
	})

	decode := func(rec *httptest.ResponseRecorder) versioncheck.ResultResponse {
		var body versioncheck.ResultResponse
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		return body
	}

	It("answers 404 before the first check", func() {
		rec := httptest.NewRecorder()
		handler.GetLatest(rec, httptest.NewRequest(http.MethodGet, "/admin/version-check", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("runs a check on demand and reports the banner", func() {
		rec := httptest.NewRecorder()
		handler.RunCheck(rec, httptest.NewRequest(http.MethodPost, "/admin/version-check/run", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		body := decode(rec)
		Expect(body.Success).To(BeTrue())
		Expect(body.ShowBanner).To(BeTrue())
		Expect(body.Result.LatestVersion).To(Equal("6.2.1"))
	})

	It("hides the banner once dismissed", func() {
		rec := httptest.NewRecorder()
		handler.RunCheck(rec, httptest.NewRequest(http.MethodPost, "/admin/version-check/run", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = httptest.NewRecorder()
		handler.DismissBanner(rec, httptest.NewRequest(http.MethodPost, "/banners/versionUpdate.dismiss", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = httptest.NewRecorder()
		handler.GetLatest(rec, httptest.NewRequest(http.MethodGet, "/admin/version-check", nil).WithContext(context.Background()))
		body := decode(rec)
		Expect(body.ShowBanner).To(BeFalse())
		Expect(body.Result.BannerDismissed).To(BeTrue())
	})

	It("surfaces remote failures as a bad gateway", func() {
		fetcher.err = context.DeadlineExceeded
		rec := httptest.NewRecorder()
		handler.RunCheck(rec, httptest.NewRequest(http.MethodPost, "/admin/version-check/run", nil))
		Expect(rec.Code).To(Equal(http.StatusBadGateway))
	})
})
