// Command coachctl runs the operator tasks of the sales coach service:
// schema migrations, demo seeding and one-off Fireflies syncs.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-coach/internal/infrastructure/database"
	"github.com/johnquangdev/sales-coach/pkg/config"
)

var (
	verbose       bool
	timeout       time.Duration
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:   "coachctl",
	Short: "Operate the sales coach service",
	Long: `coachctl runs maintenance tasks against the sales coach database.

Available subcommands:
  migrate          - Apply or roll back schema migrations
  seed             - Create a demo account with members and bearer tokens
  sync             - Pull and analyze Fireflies transcripts now
  test-connection  - Check an account's Fireflies API key`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", database.MigrationsDir, "Migrations directory")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(testConnectionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles what every subcommand opens
type env struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	var logger *zap.Logger
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, db: db, logger: logger}, nil
}

func (e *env) Close() {
	database.CloseDB(e.db)
	_ = e.logger.Sync()
}
