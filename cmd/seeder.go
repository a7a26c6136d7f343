package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/chat-admin/internal/auth"
	authPostgres "github.com/frahmantamala/chat-admin/internal/auth/postgres"
	roomDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/room"
	userDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/chat-admin/internal/core/events"
	"github.com/frahmantamala/chat-admin/internal/settings"
	settingsPostgres "github.com/frahmantamala/chat-admin/internal/settings/postgres"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedClear    bool
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the default permissions, settings and a few sample users and rooms for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "remove sample users and rooms before seeding")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password", "password for every seeded user")
}

type sampleUser struct {
	Username string
	Name     string
	Email    string
	Roles    []string
}

var sampleUsers = []sampleUser{
	{Username: "admin", Name: "Administrator", Email: "admin@example.com", Roles: []string{"admin", "user"}},
	{Username: "jane", Name: "Jane Doe", Email: "jane@example.com", Roles: []string{"user"}},
	{Username: "john", Name: "John Roe", Email: "john@example.com", Roles: []string{"user"}},
}

func runSeed(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		return fmt.Errorf("failed to init gorm: %w", err)
	}

	lg := logger.L()

	if seedClear {
		if err := clearSamples(ctx, gormDB); err != nil {
			return fmt.Errorf("failed to clear sample data: %w", err)
		}
		lg.Info("cleared sample data")
	}

	created, err := authPostgres.NewRepository(gormDB).SeedPermissions(ctx, auth.DefaultRolePermissions)
	if err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	lg.Info("seeded permissions", "created", created, "total", len(auth.DefaultRolePermissions))

	store := settings.NewStore(settingsPostgres.NewSettingRepository(db), events.NewEventBus(lg), lg)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	for _, key := range settings.Keys() {
		value, _ := store.Value(key)
		if err := store.Set(ctx, key, value); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	lg.Info("seeded settings", "count", len(settings.Keys()))

	hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ids := make(map[string]string, len(sampleUsers))
	for _, s := range sampleUsers {
		u := userDatamodel.User{
			ID:           uuid.NewString(),
			Username:     s.Username,
			Name:         s.Name,
			Emails:       []userDatamodel.Email{{Address: s.Email, Verified: true}},
			Roles:        s.Roles,
			Status:       "offline",
			Active:       true,
			PasswordHash: hash,
		}
		result := gormDB.WithContext(ctx).Where("username = ?", s.Username).FirstOrCreate(&u)
		if result.Error != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.Username, result.Error)
		}
		ids[s.Username] = u.ID
		if result.RowsAffected == 0 {
			lg.Info("user already exists", "username", s.Username)
			continue
		}
		lg.Info("seeded user", "username", s.Username, "id", u.ID)
	}

	// jane is the only owner of #design, john shares #general with her.
	if err := seedRoom(ctx, gormDB, "design", map[string][]string{
		ids["jane"]: {roomDatamodel.RoleOwner},
	}); err != nil {
		return err
	}
	if err := seedRoom(ctx, gormDB, "general", map[string][]string{
		ids["jane"]:  {roomDatamodel.RoleOwner},
		ids["john"]:  {},
		ids["admin"]: {},
	}); err != nil {
		return err
	}

	lg.Info("seeding completed")
	return nil
}

func seedRoom(ctx context.Context, db *gorm.DB, name string, members map[string][]string) error {
	room := roomDatamodel.Room{ID: uuid.NewString(), Name: name, Type: roomDatamodel.TypeChannel}
	result := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&room)
	if result.Error != nil {
		return fmt.Errorf("failed to seed room %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil
	}

	for userID, roles := range members {
		sub := roomDatamodel.Subscription{
			ID:     uuid.NewString(),
			RoomID: room.ID,
			UserID: userID,
			Roles:  roles,
		}
		if err := db.WithContext(ctx).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to subscribe %s to %s: %w", userID, name, err)
		}
	}
	return nil
}

func clearSamples(ctx context.Context, db *gorm.DB) error {
	names := make([]string, 0, len(sampleUsers))
	for _, s := range sampleUsers {
		names = append(names, s.Username)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&userDatamodel.User{}).Where("username IN ?", names).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", ids).Delete(&roomDatamodel.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("name IN ?", []string{"design", "general"}).Delete(&roomDatamodel.Room{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&userDatamodel.User{}).Error
	})
}
