package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orderRoutes := router.Group("/orders", authRequired)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// RegisterAdminRoutes registers the fulfilment routes behind adminRequired.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router, adminRequired fiber.Handler) {
	adminRoutes := router.Group("/admin/orders", adminRequired)
	adminRoutes.Patch("/:id/status", h.HandleAdvanceOrderStatus)
}

// CreateOrderRequest is the checkout body. The totals are optional cross-checks.
type CreateOrderRequest struct {
	ShippingAddressID int    `json:"shipping_address_id" validate:"required,gt=0"`
	Subtotal          *int64 `json:"subtotal" validate:"omitempty,gte=0"`
	TotalAmount       *int64 `json:"total_amount" validate:"omitempty,gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleGetOrders retrieves the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrders(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order of the caller.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "order")
	}
	order, err := h.service.GetOrder(middleware.UserID(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder turns the caller's cart into an order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	userID := middleware.UserID(c)
	order, err := h.service.PlaceOrder(c.UserContext(), userID, services.PlaceOrderInput{
		ShippingAddressID: req.ShippingAddressID,
		Subtotal:          req.Subtotal,
		TotalAmount:       req.TotalAmount,
	})
	if err != nil {
		log.Printf("Error creating order for user %d: %v", userID, err)
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus moves an order along its status machine.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "order")
	}
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.UpdateStatus(c.UserContext(), middleware.UserID(c), id, req.Status)
	if err != nil {
		log.Printf("Error updating status of order %d: %v", id, err)
		return serviceError(c, err)
	}
	return c.JSON(order)
}

// HandleAdvanceOrderStatus moves any order to the requested status for fulfilment.
func (h *OrderHandler) HandleAdvanceOrderStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "order")
	}
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.AdvanceStatus(c.UserContext(), id, req.Status)
	if err != nil {
		log.Printf("Error advancing order %d to %s: %v", id, req.Status, err)
		return serviceError(c, err)
	}
	return c.JSON(order)
}
