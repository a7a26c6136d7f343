package versioncheck_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/chat-admin/internal/core/events"
	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hub", func() {
	var (
		hub    *versioncheck.Hub
		server *httptest.Server
		cancel context.CancelFunc
		conn   *websocket.Conn
	)

	BeforeEach(func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		hub = versioncheck.NewHub(logger.Discard())
		go hub.Run(ctx)

		server = httptest.NewServer(http.HandlerFunc(hub.ServeWS))
		url := "ws" + strings.TrimPrefix(server.URL, "http")

		var err error
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		Eventually(hub.ClientCount).Should(Equal(1))
	})

	AfterEach(func() {
		conn.Close()
		server.Close()
		cancel()
	})

	readNotification := func() versioncheck.Notification {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		Expect(err).NotTo(HaveOccurred())
		var n versioncheck.Notification
		Expect(json.Unmarshal(data, &n)).To(Succeed())
		return n
	}

	It("delivers broadcasts to connected clients", func() {
		hub.Broadcast(versioncheck.Notification{Type: "ping"})
		Expect(readNotification().Type).To(Equal("ping"))
	})

	It("forwards version check events from the bus", func() {
		bus := events.NewEventBus(logger.Discard())
		detach := hub.Attach(bus)
		defer detach()

		Expect(bus.PublishSync(context.Background(), events.NewEvent(events.TypeVersionCheckCompleted, versioncheck.Result{
			LatestVersion: "6.2.1",
			UpdateNeeded:  true,
		}))).To(Succeed())

		n := readNotification()
		Expect(n.Type).To(Equal(events.TypeVersionCheckCompleted))
		Expect(n.Result).NotTo(BeNil())
		Expect(n.Result.LatestVersion).To(Equal("6.2.1"))

		Expect(bus.PublishSync(context.Background(), events.NewEvent(events.TypeBannerDismissed, nil))).To(Succeed())
		Expect(readNotification().Type).To(Equal(events.TypeBannerDismissed))
	})

	It("forgets clients that disconnect", func() {
		conn.Close()
		Eventually(hub.ClientCount).Should(Equal(0))
	})
})
