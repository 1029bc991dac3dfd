package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"designhub/internal/cache"
	"designhub/internal/config"
	"designhub/internal/settings"
)

type transferOptions struct {
	file string
}

func newExportCmd() *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current settings as a JSON export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				data, err := svc.Export()
				if err != nil {
					return err
				}
				if opts.file == "" || opts.file == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(opts.file, data, 0o644)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.file, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func newImportCmd() *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the settings with a JSON export document",
		Long: "Replace the settings with the contents of an export document. The " +
			"document is validated as a whole; on any error nothing is changed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}
			return withSettings(cmd.Context(), func(svc *settings.Service) error {
				b, err := svc.Import(cmd.Context(), data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported settings for %q\n", b.BrandName)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.file, "input", "i", "", "Input file (default stdin)")

	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return data, nil
}

// withSettings opens whichever stores the configured backend needs and
// runs fn against a hydrated settings service.
func withSettings(ctx context.Context, fn func(svc *settings.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		db     *sql.DB
		valkey *redis.Client
	)
	if cfg.SettingsBackend == config.BackendLocal {
		valkey, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return err
		}
		defer valkey.Close()
	} else {
		db, err = openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	svc, err := newSettingsService(ctx, cfg, db, valkey)
	if err != nil {
		return err
	}
	return fn(svc)
}
