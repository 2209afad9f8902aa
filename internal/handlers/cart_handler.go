package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler serves the caller's shopping cart and its items.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service, validate: newValidator()}
}

// RegisterRoutes registers the cart routes; every one of them needs authRequired.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	cartRoutes := router.Group("/shopping-cart", authRequired)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/items", h.HandleClearCart)

	itemRoutes := router.Group("/cart-items", authRequired)
	itemRoutes.Post("/", h.HandleAddItem)
	itemRoutes.Patch("/:id", h.HandleUpdateItem)
	itemRoutes.Delete("/:id", h.HandleDeleteItem)
}

type AddCartItemRequest struct {
	CartID    *int   `json:"cart_id" validate:"omitempty,gt=0"`
	ProductID int    `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice *int64 `json:"unit_price" validate:"omitempty,gte=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the caller's cart, creating it on first use.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.service.ClearCart(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	item, err := h.service.AddItem(middleware.UserID(c), services.AddItemInput{
		CartID:    req.CartID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "cart item")
	}
	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	item, err := h.service.UpdateItemQuantity(middleware.UserID(c), id, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(item)
}

func (h *CartHandler) HandleDeleteItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "cart item")
	}
	if err := h.service.RemoveItem(middleware.UserID(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart item removed",
	})
}
