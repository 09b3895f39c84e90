package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/practicelog/practicelog/internal/config"
	"github.com/practicelog/practicelog/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	var driver, connection string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			envDriver, envConnection := config.Database()
			if driver == "" {
				driver = envDriver
			}
			if connection == "" {
				connection = envConnection
			}
		},
	}

	cmd.PersistentFlags().StringVar(&driver, "driver", "", "database driver: sqlite or pgx (default $DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&connection, "dsn", "", "database connection string (default $DB_CONNECTION)")

	open := func() (*sqlx.DB, error) {
		return db.Init(driver, connection)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			return db.RunMigrations(database.DB, driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			return db.MigrateDown(database.DB, driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			version, err := db.MigrationVersion(database.DB, driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "driver=%s version=%d\n", driver, version)
			return nil
		},
	})

	return cmd
}
