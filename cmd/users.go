package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	usersByUsername bool
	usersAssumeYes  bool
	usersToken      string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and administer users on a running server",
}

var usersInfoCmd = &cobra.Command{
	Use:   "info <user-id|@username>",
	Short: "Show a user's profile and the actions available to you",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openUserSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer session.panel.Unmount()

		return printView(cmd.OutOrStdout(), session.view)
	},
}

var usersActionCmd = &cobra.Command{
	Use:   "action <action> <user-id|@username>",
	Short: "Run one of the user actions (directMessage, editUser, makeAdmin, delete, changeActiveStatus)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openUserSession(cmd, args[1])
		if err != nil {
			return err
		}
		defer session.panel.Unmount()

		key := userinfo.ActionKey(args[0])
		var action *userinfo.ActionDescriptor
		for i := range session.view.Actions {
			if session.view.Actions[i].Key == key {
				action = &session.view.Actions[i]
				break
			}
		}
		if action == nil {
			if _, known := userinfo.RequiredPermission(key); !known {
				return fmt.Errorf("unknown action %q", args[0])
			}
			return fmt.Errorf("action %q is not available for this user", args[0])
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", action.Label)
		action.Handler(cmd.Context())

		return printView(cmd.OutOrStdout(), session.panel.View())
	},
}

func init() {
	usersCmd.PersistentFlags().BoolVar(&usersByUsername, "username", false, "treat the argument as a username")
	usersCmd.PersistentFlags().StringVar(&usersToken, "token", "", "access token, overrides client.token from the config")
	usersActionCmd.Flags().BoolVarP(&usersAssumeYes, "yes", "y", false, "confirm every prompt")
	usersCmd.AddCommand(usersInfoCmd, usersActionCmd)
}

type userSession struct {
	panel *userinfo.Panel
	view  userinfo.View
}

func openUserSession(cmd *cobra.Command, target string) (*userSession, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	token := cfg.Client.Token
	if usersToken != "" {
		token = usersToken
	}

	lg := logger.L()
	endpoints := userinfo.NewHTTPEndpoints(userinfo.HTTPConfig{
		BaseURL: cfg.Client.APIURL,
		Token:   token,
		Timeout: cfg.Client.Timeout,
	}, lg)

	me, err := endpoints.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify the current user: %w", err)
	}

	panel := userinfo.NewPanel(userinfo.PanelConfig{
		Lookup:      parseLookup(target, usersByUsername),
		Permissions: auth.PermissionsForRoles(auth.DefaultRolePermissions, me.Roles),
		Endpoints:   endpoints,
		Settings:    endpoints,
		Presenter:   userinfo.NewConsolePresenter(cmd.InOrStdin(), cmd.OutOrStdout(), usersAssumeYes),
		Router:      userinfo.NewConsoleRouter(webBaseURL(cfg), cmd.OutOrStdout()),
		Translator:  userinfo.NewTranslator(cfg.Client.Locale),
		Logger:      lg,
	})

	view := panel.Mount(ctx)
	if view.State != userinfo.StateLoaded {
		panel.Unmount()
		return nil, fmt.Errorf("%s", view.Error)
	}
	return &userSession{panel: panel, view: view}, nil
}

func parseLookup(target string, byUsername bool) user.Lookup {
	if strings.HasPrefix(target, "@") {
		return user.Lookup{Username: strings.TrimPrefix(target, "@")}
	}
	if byUsername {
		return user.Lookup{Username: target}
	}
	return user.Lookup{UserID: target}
}

func webBaseURL(cfg *internal.Config) string {
	if cfg.Server.BaseURL != "" {
		return cfg.Server.BaseURL
	}
	return strings.TrimSuffix(strings.TrimSuffix(cfg.Client.APIURL, "/"), "/api/v1")
}

func printView(w io.Writer, view userinfo.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
