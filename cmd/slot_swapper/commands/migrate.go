package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/Freeeeeet/slot_swapper/internal/config"
)

func migrateCmd() *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations and print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StorageDriver != config.DriverPostgres {
				return fmt.Errorf("migrate supports only the %s driver (SQLite migrates on open)", config.DriverPostgres)
			}

			ctx, stop := signalContext()
			defer stop()

			pool, err := app.OpenPool(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			mg := app.NewMigrator(pool, cfg.MigrationsPath, logger)
			defer mg.Close()

			if !statusOnly {
				if err := mg.Run(ctx); err != nil {
					return err
				}
			}

			version, err := mg.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "only print the current version")
	return cmd
}
