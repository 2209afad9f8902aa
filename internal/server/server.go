// Package server assembles the storefront HTTP API.
package server

import (
	"time"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the backends the HTTP app runs on.
type Dependencies struct {
	Repos     repositories.Set
	Publisher events.Publisher
}

// New builds the fiber app with every route of the storefront API.
func New(cfg config.Config, deps Dependencies) *fiber.App {
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	repos := deps.Repos

	// --- Initialize Services ---
	authService := services.NewAuthService(repos.Users, cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(repos.Users, deps.Publisher)
	categoryService := services.NewCategoryService(repos.Categories)
	productService := services.NewProductService(repos.Products)
	cartService := services.NewCartService(repos.Carts, repos.Products)
	addressService := services.NewAddressService(repos.Addresses)
	orderService := services.NewOrderService(repos.Orders, repos.Carts, repos.Products, repos.Addresses, deps.Publisher)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.FallbackErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Token",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	authRequired := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(app, authRequired)
	handlers.NewUserHandler(userService).RegisterRoutes(app, authRequired)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app, authRequired)
	handlers.NewCartHandler(cartService).RegisterRoutes(app, authRequired)
	handlers.NewAddressHandler(addressService).RegisterRoutes(app, authRequired)
	orderHandler := handlers.NewOrderHandler(orderService)
	orderHandler.RegisterRoutes(app, authRequired)
	if cfg.AdminToken != "" {
		orderHandler.RegisterAdminRoutes(app, middleware.AdminRequired(cfg.AdminToken))
	}

	return app
}
