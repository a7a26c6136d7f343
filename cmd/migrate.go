package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/chat-admin/db"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded sql migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	conn, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, "postgres", migrateRollback); err != nil {
		return err
	}

	version, err := db.Version(conn, "postgres")
	if err != nil {
		return err
	}
	logger.L().Info("migrations applied", "version", version, "rollback", migrateRollback)
	return nil
}
