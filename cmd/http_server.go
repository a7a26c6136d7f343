package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/chat-admin/api"
	"github.com/frahmantamala/chat-admin/internal/auth"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/transport"
	"github.com/frahmantamala/chat-admin/internal/transport/rest"
	"github.com/frahmantamala/chat-admin/internal/user"
	"github.com/frahmantamala/chat-admin/internal/userinfo"
	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the user administration API and the version check job`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		return err
	}
	defer deps.Close()

	if _, err := api.Load(ctx); err != nil {
		return fmt.Errorf("invalid embedded openapi document: %w", err)
	}

	router := chi.NewRouter()
	setupRoutes(router, deps)

	deps.Scheduler.Start()
	stopVersions := deps.Versions.Start(ctx, deps.Settings)
	defer stopVersions()

	go deps.Hub.Run(ctx)
	detach := deps.Hub.Attach(deps.Bus)
	defer detach()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "version", currentVersion(deps.Config))

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		deps.Scheduler.Stop(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			return err
		}
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(router *chi.Mux, deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:       rest.NewHealthHandler(deps.DB, currentVersion(deps.Config)),
		Auth:         auth.NewHandler(base, deps.Auth),
		RBAC:         auth.NewRBACAuthorization(auth.NewPermissionChecker(), base),
		User:         user.NewHandler(base, deps.Users),
		UserInfo:     userinfo.NewHandler(base, deps.Users, deps.Settings),
		Settings:     settings.NewHandler(base, deps.Settings),
		VersionCheck: versioncheck.NewHandler(base, deps.Versions, deps.Hub),
	}, base, deps.Logger)
}
