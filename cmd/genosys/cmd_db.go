package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/config"
	"github.com/shashiranjanraj/genosys/database/seeders"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shashiranjanraj/genosys/pkg/migration"
	"github.com/shashiranjanraj/genosys/pkg/storage"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// genosys migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations...")
		return migration.New(database.DB).Run()
	},
}

// genosys migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch...")
		return migration.New(database.DB).Rollback()
	},
}

// genosys migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// genosys seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders...")
		return seeders.RunAll(database.DB)
	},
}

// genosys report:export — run the analytics export once, outside the
// scheduler. Useful for backfills and cron-based deployments.
var reportCmd = &cobra.Command{
	Use:   "report:export",
	Short: "Export the analytics overview CSV to the configured storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		storage.Connect()

		days, _ := cmd.Flags().GetInt("days")
		report := services.NewReportService(services.NewAnalyticsService())
		path, err := report.ExportOverview(days)
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().Int("days", 30, "size of the analytics window in days")
}
