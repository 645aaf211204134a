package cmd

import (
	"fmt"
	"os"

	"product-catalog/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "product-catalog",
	Short: "Product Catalog Service",
	Long: `Product Catalog is an HTTP backend for product CRUD with image sets.
Product rows live in a relational database; their images live in an S3
compatible bucket, and the two are kept consistent across every mutation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format to match user expectations for a CLI tool, debug
		// level for ISO8601 timestamps instead of epoch.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
