package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	"github.com/spf13/cobra"
)

var versionCheckCmd = &cobra.Command{
	Use:   "version-check",
	Short: "Run or schedule the release version check",
}

var versionCheckRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Check for a newer release once and store the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		result, err := deps.Versions.Check(ctx)
		if err != nil {
			return fmt.Errorf("version check failed: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

var versionCheckScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily version check job without the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		deps.Scheduler.Start()
		stopWatch := deps.Versions.Watch(deps.Settings)
		defer stopWatch()

		if deps.Scheduler.IsScheduled(versioncheck.JobName) {
			deps.Logger.Info("version check scheduled", "schedule", deps.Config.VersionCheck.Schedule)
		} else {
			deps.Logger.Warn("version check inactive; enable Register_Server and Update_EnableChecker to schedule it")
		}

		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "stopping scheduler")
		deps.Scheduler.Stop(context.Background())
		return nil
	},
}

func init() {
	versionCheckCmd.AddCommand(versionCheckRunCmd, versionCheckScheduleCmd)
}
