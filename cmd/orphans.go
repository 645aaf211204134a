package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"product-catalog/core/config"
	"product-catalog/core/database"
	"product-catalog/core/logger"
	"product-catalog/core/storage"
	"product-catalog/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var purgeFlag bool
var jsonFlag bool

// orphansCmd represents the orphans command
var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Audit the bucket for orphaned image objects",
	Long: `Lists every object under the catalog prefix that no product row
references. Orphans appear when out-of-band writes or an interrupted rollback
leave objects behind. With --purge the orphans are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		svc, err := catalog.NewService(client, cfg.Storage, cfg.Catalog, logg, db)
		if err != nil {
			return fmt.Errorf("failed to create catalog service: %w", err)
		}

		logg.Info("Auditing bucket for orphaned objects...",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("prefix", cfg.Catalog.KeyPrefix),
		)

		report, err := svc.AuditOrphans(ctx, purgeFlag)
		if err != nil {
			return fmt.Errorf("orphan audit failed: %w", err)
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		logg.Info("Orphan audit complete",
			zap.Int("scanned", report.Scanned),
			zap.Int("referenced", report.Referenced),
			zap.Int("orphans", len(report.Orphans)),
			zap.Int("purged", report.Purged),
		)
		for _, key := range report.Orphans {
			logg.Warn("Orphaned object", zap.String("key", key))
		}
		return nil
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&purgeFlag, "purge", false, "remove orphaned objects")
	orphansCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the report as JSON")
	RootCmd.AddCommand(orphansCmd)
}
