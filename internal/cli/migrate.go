package cli

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/migrations"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			version, err := migrations.Up(cfg.Database.URL())
			if err != nil {
				log.Error("Failed to apply migrations: %v", err)
				return err
			}
			log.Info("Migrations applied, schema version=%d", version)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			if err := migrations.Down(cfg.Database.URL()); err != nil {
				log.Error("Failed to roll back migrations: %v", err)
				return err
			}
			log.Info("Migrations rolled back")
			return nil
		},
	})

	return cmd
}
