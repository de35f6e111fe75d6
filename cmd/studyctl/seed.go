package main

import (
	"context"
	"fmt"
	"time"

	"studyos/internal/services"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default community groups",
	Long: `Seed reference data the server expects. It is safe to run repeatedly;
existing groups are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, logger, manager, err := openDB()
	if err != nil {
		return err
	}

	sc, err := services.NewServiceCollection(manager, cfg, logger)
	if err != nil {
		manager.Close()
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer sc.Shutdown(ctx)

	if err := sc.CommunityService.EnsureDefaultGroups(ctx); err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}

	groups, err := sc.Repositories.Community.ListGroups(ctx, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d community groups present\n", len(groups))
	return nil
}
