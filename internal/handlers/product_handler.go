package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes. Catalog changes require authRequired.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", authRequired, h.HandleCreateProduct)
	productRoutes.Patch("/:id", authRequired, h.HandleUpdateProduct)
}

type ProductImageRequest struct {
	ImagePath string  `json:"image_path" validate:"required"`
	AltText   *string `json:"alt_text"`
	IsPrimary bool    `json:"is_primary"`
}

type CreateProductRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   *string               `json:"description"`
	Price         int64                 `json:"price" validate:"gte=0"`
	ComparePrice  int64                 `json:"compare_price" validate:"gte=0"`
	StockQuantity *int                  `json:"stock_quantity" validate:"omitempty,gte=0"`
	SKU           string                `json:"sku"`
	CategoryID    int                   `json:"category_id" validate:"gte=0"`
	Images        []ProductImageRequest `json:"images" validate:"dive"`
}

// UpdateProductRequest lists the product fields a PATCH may carry. An explicit
// "stock_quantity": null switches the product to untracked stock.
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price" validate:"omitempty,gte=0"`
	ComparePrice  *int64  `json:"compare_price" validate:"omitempty,gte=0"`
	StockQuantity *int    `json:"stock_quantity" validate:"omitempty,gte=0"`
	SKU           *string `json:"sku"`
	CategoryID    *int    `json:"category_id" validate:"omitempty,gt=0"`
}

// HandleGetProducts lists products, filtered by the category_id query parameter when present.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	categoryID := 0
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return invalidID(c, "category")
		}
		categoryID = id
	}
	products, err := h.service.GetAllProducts(categoryID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "product")
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ComparePrice:  req.ComparePrice,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
	}
	for _, img := range req.Images {
		product.Images = append(product.Images, models.ProductImage{
			ImagePath: img.ImagePath,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}
	if err := h.service.CreateProduct(product); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "product")
	}
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return invalidBody(c, err)
	}
	stock, untrack := raw["stock_quantity"]
	untrack = untrack && bytes.Equal(bytes.TrimSpace(stock), []byte("null"))

	product, err := h.service.UpdateProduct(id, services.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ComparePrice:  req.ComparePrice,
		StockQuantity: req.StockQuantity,
		UntrackStock:  untrack,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}
