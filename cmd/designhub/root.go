package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"designhub/internal/cache"
	"designhub/internal/config"
	"designhub/internal/database"
	"designhub/internal/models"
	"designhub/internal/settings"
	"designhub/internal/storage"
	"designhub/internal/store"
)

// localKVPrefix namespaces the local settings bundle in Valkey.
const localKVPrefix = "designhub:"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "designhub",
		Short:         "Design-system documentation and settings server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newGrantAdminCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())

	return cmd
}

// loadConfig reads the environment and installs the default logger:
// text in development, JSON otherwise.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	return cfg, nil
}

// openDB connects to PostgreSQL and applies pending migrations.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// newSettingsService builds the settings service for the configured
// backend and hydrates it. The local backend keeps its bundle in Valkey;
// the remote backend uses the design_system_versions table.
func newSettingsService(ctx context.Context, cfg *config.Config, db *sql.DB, valkey *redis.Client) (*settings.Service, error) {
	var backend settings.Backend
	switch cfg.SettingsBackend {
	case config.BackendLocal:
		backend = settings.NewLocalBackend(cache.NewValkeyKV(valkey, localKVPrefix))
	default:
		backend = settings.NewRemoteBackend(store.NewVersionStore(db))
	}

	logos, err := newLogoSink(cfg)
	if err != nil {
		return nil, err
	}

	svc := settings.NewService(settings.NewState(models.DefaultBundle()), backend, logos)
	if _, err := svc.Load(ctx); err != nil {
		return nil, err
	}

	slog.Info("settings loaded", "backend", svc.Backend())
	return svc, nil
}

// newLogoSink returns an S3 sink when storage is configured and nil
// otherwise, which makes the service fall back to data URLs.
func newLogoSink(cfg *config.Config) (settings.LogoSink, error) {
	if !cfg.HasStorage() {
		slog.Warn("s3 storage not configured, logos are stored inline as data URLs")
		return nil, nil
	}

	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return nil, fmt.Errorf("init s3 storage: %w", err)
	}
	slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
	return settings.NewObjectSink(client), nil
}
