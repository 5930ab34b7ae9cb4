package main

import (
	"errors"
	"fmt"

	pg "vidalink/internal/adapters/storage/postgres"
	"vidalink/internal/config"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required to migrate")
			}

			db, err := pg.Open(cfg.DatabaseURL, 2)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := pg.MigrateUp(db)
			if err != nil {
				return err
			}

			newLogger(cfg).Info("migrations applied", map[string]any{"version": version})
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	})

	return cmd
}
