package cmd

import (
	"fmt"

	"product-catalog/core/config"
	"product-catalog/core/database"
	"product-catalog/core/logger"
	"product-catalog/feature/catalog"
	"product-catalog/feature/visits"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Creates or updates the catalog and visits tables in the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		if err := catalog.Migrate(db); err != nil {
			return fmt.Errorf("catalog migration failed: %w", err)
		}
		if err := visits.Migrate(db); err != nil {
			return fmt.Errorf("visits migration failed: %w", err)
		}

		logg.Info("Schema migration complete", zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
