package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service, validate: newValidator()}
}

func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", h.HandleCreateCategory)
}

type CategoryRequest struct {
	Name             string  `json:"name" validate:"required"`
	Description      *string `json:"description"`
	ImagePath        *string `json:"image_path"`
	ParentCategoryID *int    `json:"parent_category_id"`
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "category")
	}
	category, err := h.service.GetCategory(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	category := &models.Category{
		Name:             req.Name,
		Description:      req.Description,
		ImagePath:        req.ImagePath,
		ParentCategoryID: req.ParentCategoryID,
	}
	if err := h.service.CreateCategory(category); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
