package main

import (
	"github.com/spf13/cobra"

	"designhub/internal/cache"
	"designhub/internal/catalog"
	"designhub/internal/database"
	"designhub/internal/store"
)

type seedOptions struct {
	devAdmin bool
}

func newSeedCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled component catalog",
		Long: "Load the bundled component catalog into an empty database and drop " +
			"cached catalog responses. With --dev-admin a default admin account is " +
			"created when no users exist.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.devAdmin, "dev-admin", false, "Create the development admin account")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.SeedCatalog(ctx, db); err != nil {
		return err
	}
	if opts.devAdmin || cfg.IsDev() {
		if err := database.SeedDevAdmin(ctx, db); err != nil {
			return err
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	catalog.NewService(
		store.NewCategoryStore(db),
		store.NewComponentStore(db),
		store.NewTokenStore(db),
		cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL),
	).Invalidate(ctx)

	return nil
}
