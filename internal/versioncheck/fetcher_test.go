package versioncheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPFetcher", func() {
	var (
		server *httptest.Server
		query  chan map[string]string
	)

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("sends the current version and decodes the release list", func() {
		query = make(chan map[string]string, 1)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query <- map[string]string{
				"version":  r.URL.Query().Get("version"),
				"uniqueId": r.URL.Query().Get("uniqueId"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"versions":[{"version":"6.2.1","security":true,"infoUrl":"https://example.org/6.2.1"}]}`))
		}))

		fetcher := versioncheck.NewHTTPFetcher(versioncheck.FetcherConfig{
			URL:      server.URL + "/releases",
			UniqueID: "install-42",
			Timeout:  time.Second,
		}, logger.Discard())

		releases, err := fetcher.Fetch(context.Background(), "6.1.0")
		Expect(err).NotTo(HaveOccurred())
		Expect(releases.Versions).To(HaveLen(1))
		Expect(releases.Versions[0].Version).To(Equal("6.2.1"))
		Expect(releases.Versions[0].Security).To(BeTrue())
		Expect(releases.Versions[0].InfoURL).To(Equal("https://example.org/6.2.1"))

		Expect(query).To(Receive(Equal(map[string]string{"version": "6.1.0", "uniqueId": "install-42"})))
	})

	It("fails on a non-200 response", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		fetcher := versioncheck.NewHTTPFetcher(versioncheck.FetcherConfig{URL: server.URL}, logger.Discard())
		_, err := fetcher.Fetch(context.Background(), "6.1.0")
		Expect(err).To(MatchError(ContainSubstring("503")))
	})

	It("gives up after the timeout", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))

		fetcher := versioncheck.NewHTTPFetcher(versioncheck.FetcherConfig{URL: server.URL, Timeout: 50 * time.Millisecond}, logger.Discard())
		_, err := fetcher.Fetch(context.Background(), "6.1.0")
		Expect(err).To(HaveOccurred())
	})
})
