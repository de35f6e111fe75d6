// Package main implements studyctl, the operator CLI for StudyOS databases and deployments.
package main

import (
	"fmt"
	"os"

	"studyos/internal/config"
	"studyos/internal/database"
	"studyos/internal/utils/appinfo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// migrationsDir overrides DB_MIGRATIONS_PATH
	migrationsDir string
	verbose       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Operate a StudyOS deployment",
	Long: `studyctl manages the StudyOS database schema and seed data.

It reads the same environment (and .env file outside production) as the server.`,
	Version:       appinfo.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "", "migrations directory (defaults to DB_MIGRATIONS_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log database activity")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appinfo.GetVersion())
	},
}

// loadEnv reads configuration and a CLI logger
func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, nil, err
		}
	}
	return cfg, logger, nil
}

func migrationsPath(cfg *config.Config) string {
	if migrationsDir != "" {
		return migrationsDir
	}
	return database.DetermineMigrationsPath(cfg.Database.MigrationsPath)
}

// openDB connects without running migrations
func openDB() (*config.Config, *zap.Logger, *database.Manager, error) {
	cfg, logger, err := loadEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	manager, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect: %w", err)
	}
	return cfg, logger, manager, nil
}
