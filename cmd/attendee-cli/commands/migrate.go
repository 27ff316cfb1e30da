package commands

import (
	"fmt"
	"log/slog"

	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/shared"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	migrateCmd := cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(newMigrateUpCommand())
	migrateCmd.AddCommand(newMigrateDownCommand())
	migrateCmd.AddCommand(newMigrateVersionCommand())
	return &migrateCmd
}

func openGorm() shared.DB {
	pool := database.NewPgxConnPool(database.GetPoolConfigFromEnv())
	return database.NewGormDB(pool)
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			if err := database.RunMigrationsWithDB(openGorm()); err != nil {
				slog.Error("could not run migrations", "err", err)
				return err
			}
			return nil
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			if err := database.MigrateDownWithDB(openGorm()); err != nil {
				slog.Error("could not roll back migration", "err", err)
				return err
			}
			return nil
		},
	}
}

func newMigrateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			version, dirty, err := database.GetMigrationVersionWithDB(openGorm())
			if err == migrate.ErrNilVersion {
				fmt.Println("no migrations applied yet")
				return nil
			}
			if err != nil {
				slog.Error("could not read migration version", "err", err)
				return err
			}

			fmt.Printf("version: %d, dirty: %t\n", version, dirty)
			return nil
		},
	}
}
