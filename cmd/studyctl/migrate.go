package main

import (
	"fmt"
	"strconv"

	"studyos/internal/database"

	"github.com/spf13/cobra"
)

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd, migrateCreateCmd)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply, roll back and inspect golang-migrate migrations.

Examples:
  # Apply every pending migration
  studyctl migrate up

  # Roll back the last two migrations
  studyctl migrate down 2

  # Scaffold a new migration pair
  studyctl migrate create add_task_tags`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, manager, err := openDB()
		if err != nil {
			return err
		}
		defer manager.Close()

		path := migrationsPath(cfg)
		if err := manager.Migrate(path); err != nil {
			return err
		}
		return printVersion(cmd, manager, path)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}

		cfg, _, manager, err := openDB()
		if err != nil {
			return err
		}
		defer manager.Close()

		path := migrationsPath(cfg)
		if err := manager.MigrateDown(path, steps); err != nil {
			return err
		}
		return printVersion(cmd, manager, path)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, manager, err := openDB()
		if err != nil {
			return err
		}
		defer manager.Close()
		return printVersion(cmd, manager, migrationsPath(cfg))
	},
}

var migrateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty up/down migration pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := migrationsDir
		if dir == "" {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}
			dir = migrationsPath(cfg)
		}

		up, down, err := database.CreateMigrationFile(dir, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\nCreated %s\n", up, down)
		return nil
	},
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

func printVersion(cmd *cobra.Command, manager *database.Manager, path string) error {
	version, dirty, err := manager.MigrationVersion(path)
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Schema version: none")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d", version)
	if dirty {
		fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
