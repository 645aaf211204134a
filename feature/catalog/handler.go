package catalog

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"product-catalog/core/logger"
	"product-catalog/core/utils"
	"product-catalog/feature/catalog/models"
	"product-catalog/feature/catalog/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the product catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
	timeout time.Duration
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, logger: logger, timeout: timeout}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Post("/reorder", h.HandleReorder)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList returns all products.
// @Summary List products
// @Description List all products with their image sets, ordered by display order (if enabled) then id.
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductResponse "Products"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	ctx, cancel := h.opCtx(c)
	defer cancel()

	products, err := h.service.List(ctx)
	if err != nil {
		return h.respondError(c, err)
	}

	out := make([]models.ProductResponse, len(products))
	for i := range products {
		out[i] = models.NewProductResponse(&products[i])
	}
	return c.JSON(out)
}

// HandleGet returns a single product.
// @Summary Get product
// @Description Get one product with its image set.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.ProductResponse "Product"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /products/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	p, err := h.service.Get(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewProductResponse(p))
}

// HandleCreate creates a product from a multipart form.
// @Summary Create product
// @Description Create a product with scalar fields and up to N image file parts ("images").
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Product name"
// @Param description formData string false "Description"
// @Param price formData number false "Price"
// @Param discount formData number false "Discount percentage, clamped to [0,100]"
// @Param display_order formData int false "Manual sort position"
// @Param images formData file false "Image files"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return h.respondError(c, &ValidationError{Reason: "multipart form required"})
	}

	in := CreateInput{Name: c.FormValue("name"), Description: c.FormValue("description")}

	price, err := utils.OptionalFloat(form, "price")
	if err != nil {
		return h.respondError(c, &ValidationError{Field: "price", Reason: "must be a number"})
	}
	if price != nil {
		in.Price = *price
	}

	discount, err := utils.OptionalFloat(form, "discount")
	if err != nil {
		return h.respondError(c, &ValidationError{Field: "discount", Reason: "must be a number"})
	}
	if discount != nil {
		in.Discount = *discount
	}

	order, err := utils.OptionalInt(form, "display_order")
	if err != nil {
		return h.respondError(c, &ValidationError{Field: "display_order", Reason: "must be an integer"})
	}
	if order != nil {
		in.DisplayOrder = *order
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	result, err := h.service.Create(ctx, in, filesFrom(form))
	if err != nil {
		return h.respondError(c, err)
	}

	resp := fiber.Map{
		"success": true,
		"id":      result.Product.ID,
		"images":  result.Product.ImageURLs(),
	}
	if len(result.Dropped) > 0 {
		resp["dropped"] = result.Dropped
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleUpdate updates a product from a multipart form. Absent fields keep
// their stored values; files are optional.
// @Summary Update product
// @Description Update scalar fields and reconcile the image set with any uploaded files.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param name formData string false "Product name"
// @Param description formData string false "Description"
// @Param price formData number false "Price"
// @Param discount formData number false "Discount percentage, clamped to [0,100]"
// @Param display_order formData int false "Manual sort position"
// @Param images formData file false "Image files"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return h.respondError(c, &ValidationError{Reason: "multipart form required"})
	}

	in := UpdateInput{
		Name:        utils.OptionalString(form, "name"),
		Description: utils.OptionalString(form, "description"),
	}
	if in.Price, err = utils.OptionalFloat(form, "price"); err != nil {
		return h.respondError(c, &ValidationError{Field: "price", Reason: "must be a number"})
	}
	if in.Discount, err = utils.OptionalFloat(form, "discount"); err != nil {
		return h.respondError(c, &ValidationError{Field: "discount", Reason: "must be a number"})
	}
	if in.DisplayOrder, err = utils.OptionalInt(form, "display_order"); err != nil {
		return h.respondError(c, &ValidationError{Field: "display_order", Reason: "must be an integer"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	result, err := h.service.Update(ctx, id, in, filesFrom(form))
	if err != nil {
		return h.respondError(c, err)
	}

	resp := fiber.Map{"success": true, "images": result.Product.ImageURLs()}
	if len(result.Dropped) > 0 {
		resp["dropped"] = result.Dropped
	}
	return c.JSON(resp)
}

// HandleDelete removes a product and its stored images.
// @Summary Delete product
// @Description Delete the product's stored images, then the row.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type reorderRequest struct {
	OrderedIDs []uint `json:"orderedIds"`
}

// HandleReorder assigns manual sort positions from an ordered id list.
// @Summary Reorder products
// @Description Set display_order by position in the supplied id list.
// @Tags products
// @Accept json
// @Produce json
// @Param body body reorderRequest true "Ordered product ids"
// @Success 200 {object} map[string]interface{} "Reordered"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/reorder [post]
func (h *Handler) HandleReorder(c *fiber.Ctx) error {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return h.respondError(c, &ValidationError{Field: "orderedIds", Reason: "must be a JSON array of ids"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.service.Reorder(ctx, req.OrderedIDs); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// opCtx bounds an operation by the per-request deadline.
func (h *Handler) opCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), h.timeout)
}

func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": ve.Error()})
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": nf.Error()})
	}

	l := logger.WithRayID(h.logger, c)
	if errors.Is(err, context.DeadlineExceeded) {
		l.Error("request deadline exceeded", zap.Error(err))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"success": false, "error": "request timed out"})
	}

	// Internal detail stays in the logs; the client gets a short message.
	l.Error("request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "internal server error"})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return uint(id), nil
}

// filesFrom converts the form's "images" file parts into reconcile files.
func filesFrom(form *multipart.Form) []reconcile.File {
	if form == nil {
		return nil
	}
	headers := form.File["images"]
	files := make([]reconcile.File, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		files = append(files, reconcile.File{
			Name:        fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}
