package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler serves the caller's shipping addresses.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
}

func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{service: service, validate: newValidator()}
}

func (h *AddressHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	addressRoutes := router.Group("/addresses", authRequired)
	addressRoutes.Get("/", h.HandleGetAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
}

type AddressRequest struct {
	AddressLine1 string  `json:"address_line1" validate:"required"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	Country      string  `json:"country" validate:"required"`
	IsDefault    bool    `json:"is_default"`
}

func (h *AddressHandler) HandleGetAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.ListAddresses(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(addresses)
}

func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	address := &models.Address{
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	}
	if err := h.service.CreateAddress(middleware.UserID(c), address); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}
