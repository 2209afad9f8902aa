package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorResponse writes the {message, statusCode} body shared by every error.
func errorResponse(c *fiber.Ctx, status int, message string, fields map[string]string) error {
	body := fiber.Map{
		"message":    message,
		"statusCode": status,
	}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	return c.Status(status).JSON(body)
}

// serviceError maps a service error onto its HTTP status. Unknown errors are
// logged and hidden behind a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		return errorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	}
	return errorResponse(c, status, svcErr.Message, svcErr.Fields)
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body on %s %s: %v", c.Method(), c.Path(), err)
	return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
}

// validationFailed reports every failed validator tag by JSON field name.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", nil)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorResponse(c, fiber.StatusBadRequest, "Validation failed", errorMessages)
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx, what string) error {
	return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid %s ID", what), nil)
}

// FallbackErrorHandler renders errors that escape the handlers, such as
// unknown routes, in the shared error shape.
func FallbackErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return errorResponse(c, status, message, nil)
}
