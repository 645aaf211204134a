package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"product-catalog/core/config"
	"product-catalog/core/database"
	"product-catalog/core/loader"
	"product-catalog/core/logger"
	"product-catalog/core/middleware/rayid"
	"product-catalog/core/storage"
	"product-catalog/feature/catalog"
	"product-catalog/feature/visits"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "product-catalog/docs/swagger"
)

// @title Product Catalog API
// @version 1.0
// @description API for managing catalog products and their image sets.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the product catalog server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := catalog.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate catalog schema", zap.Error(err))
		}
		if err := visits.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate visits schema", zap.Error(err))
		}

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		if err := storage.EnsureBucket(cmd.Context(), store, cfg.Storage); err != nil {
			logg.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// Middleware Registration
		// RayID must be first to trace everything.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 6. Register Features
		mgr := loader.NewManager()
		mgr.Register(visits.NewFeature(logg, db))

		catalogFeature, err := catalog.NewFeature(store, cfg.Storage, cfg.Catalog, logg, db, cfg.Server.RequestTimeout())
		if err != nil {
			logg.Fatal("Failed to create catalog feature", zap.Error(err))
		}
		mgr.Register(catalogFeature)

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
