package main

import (
	"context"
	"fmt"
	"strconv"

	"elvalg/cmd/migration/initialize"
	"elvalg/cmd/migration/seed"
	"elvalg/internal/app"
	"elvalg/internal/database"
	"elvalg/internal/logger"

	"github.com/spf13/cobra"
)

// Opening the app applies pending migrations, so "up" only reports.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithApp(cmd, func(_ context.Context, a *app.App) error {
			return printMigrations(cmd, a)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back the most recent migrations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive number, got %q", args[0])
			}
			steps = n
		}

		return runWithApp(cmd, func(_ context.Context, a *app.App) error {
			sqlDB, err := a.Database.SQL.DB()
			if err != nil {
				return err
			}
			reverted, err := database.Rollback(sqlDB, a.Database.Driver, steps)
			if err != nil {
				return err
			}
			cmd.Printf("Rolled back %d migration(s)\n", reverted)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithApp(cmd, func(_ context.Context, a *app.App) error {
			return printMigrations(cmd, a)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin user and add development data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App) error {
			log := logger.New("main")
			if a.Config.IsProduction() {
				return log.Function("seed").Error("refusing to seed a production database")
			}
			if err := initialize.InitializeTables(ctx, a.Repos, a.Config, log); err != nil {
				return err
			}
			return seed.Seed(ctx, a.Repos, a.LeadController, a.ContractController, log)
		})
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the valkey caches",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Flush cached prices and admin sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Database.FlushAllCaches(ctx)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	cacheCmd.AddCommand(cacheFlushCmd)
}

func printMigrations(cmd *cobra.Command, a *app.App) error {
	sqlDB, err := a.Database.SQL.DB()
	if err != nil {
		return err
	}

	states, err := database.MigrationStatus(sqlDB, a.Database.Driver)
	if err != nil {
		return err
	}

	for _, state := range states {
		applied := "pending"
		if state.AppliedAt != nil {
			applied = state.AppliedAt.Format("2006-01-02 15:04:05")
		}
		cmd.Printf("%-30s %s\n", state.ID, applied)
	}
	return nil
}
