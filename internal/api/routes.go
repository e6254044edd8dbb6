package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/middleware"
	"github.com/bilgisen/newsportal/internal/portal"
)

// SetupRoutes mounts the operations API under /api/v1.
func SetupRoutes(app fiber.Router, p *portal.Service, adminKey string) {
	handlers := NewHandlers(p)

	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	cache := api.Group("/cache", middleware.AdminOnly(adminKey))
	cache.Post("/invalidate", middleware.ValidateBody[InvalidateRequest](), handlers.InvalidateCache)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
