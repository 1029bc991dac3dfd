package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"designhub/internal/auth"
	"designhub/internal/cache"
	"designhub/internal/catalog"
	"designhub/internal/database"
	"designhub/internal/figma"
	"designhub/internal/handlers"
	"designhub/internal/middleware"
	"designhub/internal/router"
	"designhub/internal/session"
	"designhub/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"settings_backend", cfg.SettingsBackend,
	)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.SeedCatalog(ctx, db); err != nil {
			return err
		}
		if err := database.SeedDevAdmin(ctx, db); err != nil {
			return err
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	userStore := store.NewUserStore(db)
	checker := auth.NewChecker(store.NewRoleStore(db))

	settingsSvc, err := newSettingsService(ctx, cfg, db, valkeyClient)
	if err != nil {
		return err
	}

	catalogSvc := catalog.NewService(
		store.NewCategoryStore(db),
		store.NewComponentStore(db),
		store.NewTokenStore(db),
		cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL),
	)

	figmaClient := figma.New(cfg.FigmaExportURL, cfg.FigmaExportToken)
	if figmaClient == nil {
		slog.Warn("figma export not configured, export endpoint disabled")
	}

	// 10 login or 2FA attempts per minute per IP.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	h := router.Handlers{
		Auth:     handlers.NewAuth(sessionStore, userStore, checker),
		Catalog:  handlers.NewCatalog(catalogSvc),
		Settings: handlers.NewSettings(settingsSvc),
		Versions: handlers.NewVersions(settingsSvc),
		Figma:    handlers.NewFigma(figmaClient, settingsSvc, catalogSvc),
	}
	r := router.New(sessionStore, checker, h, router.Options{
		SecureCookies: secureCookies,
		AuthLimiter:   authLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("server failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
