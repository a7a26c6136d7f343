package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/auth"
	authPostgres "github.com/frahmantamala/chat-admin/internal/auth/postgres"
	"github.com/frahmantamala/chat-admin/internal/core/events"
	"github.com/frahmantamala/chat-admin/internal/settings"
	settingsPostgres "github.com/frahmantamala/chat-admin/internal/settings/postgres"
	"github.com/frahmantamala/chat-admin/internal/user"
	userPostgres "github.com/frahmantamala/chat-admin/internal/user/postgres"
	"github.com/frahmantamala/chat-admin/internal/versioncheck"
	vcPostgres "github.com/frahmantamala/chat-admin/internal/versioncheck/postgres"
	"github.com/frahmantamala/chat-admin/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Dependencies is the object graph shared by the server and the console commands.
type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Gorm      *gorm.DB
	Logger    *slog.Logger
	Bus       *events.EventBus
	Settings  *settings.Store
	Users     *user.Service
	Auth      *auth.Service
	AuthRepo  *authPostgres.Repository
	Scheduler *versioncheck.Scheduler
	Versions  *versioncheck.Service
	Hub       *versioncheck.Hub
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	lg := logger.L()
	bus := events.NewEventBus(lg)

	store := settings.NewStore(settingsPostgres.NewSettingRepository(db), bus, lg)
	if err := store.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	authRepo := authPostgres.NewRepository(gormDB)
	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)

	scheduler := versioncheck.NewScheduler(lg, time.Local)
	fetcher := versioncheck.NewHTTPFetcher(versioncheck.FetcherConfig{
		URL:      config.VersionCheck.URL,
		UniqueID: config.VersionCheck.UniqueID,
		Timeout:  config.VersionCheck.Timeout,
	}, lg)
	versions := versioncheck.NewService(
		vcPostgres.NewVersionCheckRepository(gormDB),
		fetcher,
		scheduler,
		bus,
		versioncheck.Config{
			CurrentVersion: currentVersion(config),
			Schedule:       config.VersionCheck.Schedule,
			JobTimeout:     2 * config.VersionCheck.Timeout,
		},
		lg,
	)

	return &Dependencies{
		Config:    config,
		DB:        db,
		Gorm:      gormDB,
		Logger:    lg,
		Bus:       bus,
		Settings:  store,
		Users:     user.NewService(userPostgres.NewUserRepository(gormDB), store, lg),
		Auth:      auth.NewService(authRepo, tokens, lg),
		AuthRepo:  authRepo,
		Scheduler: scheduler,
		Versions:  versions,
		Hub:       versioncheck.NewHub(lg),
	}, nil
}

func (d *Dependencies) Close() {
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func currentVersion(cfg *internal.Config) string {
	if cfg.VersionCheck.CurrentVersion != "" {
		return cfg.VersionCheck.CurrentVersion
	}
	return Version
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
