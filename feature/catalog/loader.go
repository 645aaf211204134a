package catalog

import (
	"time"

	"product-catalog/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the catalog feature.
func NewFeature(client storage.Client, storeCfg storage.Config, cfg Config, logger *zap.Logger, db *gorm.DB, requestTimeout time.Duration) (*Feature, error) {
	svc, err := NewService(client, storeCfg, cfg, logger, db)
	if err != nil {
		return nil, err
	}
	h := NewHandler(svc, logger, requestTimeout)
	return &Feature{service: svc, handler: h}, nil
}

// Service exposes the feature's service, used by the CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
