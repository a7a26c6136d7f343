package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow server side notifications",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print version check notifications as they are broadcast",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		token := cfg.Client.Token
		if usersToken != "" {
			token = usersToken
		}

		target, err := streamURL(cfg.Client.APIURL)
		if err != nil {
			return err
		}

		header := http.Header{}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}

		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, header)
		if err != nil {
			if resp != nil {
				return fmt.Errorf("failed to connect to %s: %s", target, resp.Status)
			}
			return fmt.Errorf("failed to connect to %s: %w", target, err)
		}
		defer conn.Close()

		go func() {
			<-ctx.Done()
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		}()

		out := cmd.OutOrStdout()
		for {
			var n versioncheck.Notification
			if err := conn.ReadJSON(&n); err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return fmt.Errorf("stream closed: %w", err)
			}
			line, _ := json.Marshal(n)
			fmt.Fprintln(out, string(line))
		}
	},
}

func init() {
	eventsTailCmd.Flags().StringVar(&usersToken, "token", "", "access token, overrides client.token from the config")
	eventsCmd.AddCommand(eventsTailCmd)
}

// streamURL turns the REST base URL into the websocket stream address.
func streamURL(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(apiURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", apiURL, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/admin/version-check/stream"
	return u.String(), nil
}
