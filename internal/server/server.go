// Package server assembles the HTTP application from its dependencies.
package server

import (
	"time"

	"zencart/internal/config"
	"zencart/internal/events"
	"zencart/internal/handlers"
	"zencart/internal/middleware"
	"zencart/internal/repositories"
	"zencart/internal/services"
	"zencart/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Dependencies are the stores and adapters the HTTP application runs on.
type Dependencies struct {
	Products  repositories.ProductRepository
	Users     repositories.UserRepository
	Orders    repositories.OrderRepository
	Images    storage.ImageStore
	Publisher events.Publisher
}

// New builds the Fiber application: middleware, services and routes.
func New(cfg *config.Config, deps Dependencies) *fiber.App {
	productService := services.NewProductService(deps.Products, deps.Publisher)
	authService := services.NewAuthService(deps.Users, cfg.JWTSecret)
	userService := services.NewUserService(deps.Users, deps.Products)
	orderService := services.NewOrderService(deps.Orders, deps.Products, deps.Publisher)

	productHandler := handlers.NewProductHandler(productService, deps.Images)
	authHandler := handlers.NewAuthHandler(authService, userService)
	cartHandler := handlers.NewCartHandler(userService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{
		AppName:      "zencart",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(middleware.Recover())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: cfg.CORSHeaders,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	if cfg.ImageStorage == config.ImageStorageDisk {
		app.Static("/uploads", cfg.UploadDir, fiber.Static{Browse: false})
	}

	productHandler.RegisterRoutes(app)
	authHandler.RegisterRoutes(app)
	cartHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app.Group("/orders", middleware.AuthRequired(authService)))

	return app
}
