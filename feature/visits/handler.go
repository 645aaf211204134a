package visits

import (
	"product-catalog/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the liveness endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the liveness routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleRoot)
	app.Get("/health", h.HandleHealth)
}

// HandleRoot is the root liveness probe.
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "OK"
// @Router / [get]
func (h *Handler) HandleRoot(c *fiber.Ctx) error {
	return h.respond(c, "/")
}

// HandleHealth is the health liveness probe.
// @Summary Health probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "OK"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return h.respond(c, "/health")
}

func (h *Handler) respond(c *fiber.Ctx, path string) error {
	resp := fiber.Map{"status": "ok"}

	// A broken counter must not fail the probe.
	count, err := h.service.Record(c.Context(), path)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("failed to record visit", zap.Error(err))
	} else {
		resp["visits"] = count
	}
	return c.JSON(resp)
}
