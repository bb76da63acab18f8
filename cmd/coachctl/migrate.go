package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/sales-coach/internal/infrastructure/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, migrate.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every applied migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, migrate.Down)
	},
}

func runMigrate(cmd *cobra.Command, direction migrate.MigrationDirection) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	n, err := database.Migrate(e.db, migrationsDir, direction)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Applied %d migration(s) from %s\n", n, migrationsDir)
	return nil
}
