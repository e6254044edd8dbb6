package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/middleware"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
)

// Version is reported by the health check.
var Version = "1.0.0"

const pingTimeout = 2 * time.Second

type Handlers struct {
	portal *portal.Service
}

func NewHandlers(p *portal.Service) *Handlers {
	return &Handlers{portal: p}
}

// HealthCheck handles GET /api/v1/health. A failing cache store degrades
// the status but still answers 200 because pages keep rendering from the
// content API.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	status, store := "ok", "ok"
	if err := h.portal.Queries().Store().Ping(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("Cache store ping failed")
		status, store = "degraded", err.Error()
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"version": Version,
		"time":    time.Now().Format(time.RFC3339),
		"cache":   store,
	})
}

// InvalidateRequest names the cached resources to drop.
type InvalidateRequest struct {
	Resources []string `json:"resources" form:"resources" validate:"required,min=1,dive,required"`
}

// InvalidateCache handles POST /api/v1/cache/invalidate. The content
// backend calls it when content changes outside the backoffice.
func (h *Handlers) InvalidateCache(c *fiber.Ctx) error {
	req := middleware.Validated[InvalidateRequest](c)

	resources := make([]query.Resource, 0, len(req.Resources))
	var unknown []string
	for _, name := range req.Resources {
		if !portal.IsResource(name) {
			unknown = append(unknown, name)
			continue
		}
		resources = append(resources, query.Resource(name))
	}
	if len(unknown) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "Unknown resources",
			"unknown": unknown,
		})
	}

	if err := h.portal.Invalidate(c.UserContext(), resources...); err != nil {
		logger.Get().Error().Err(err).Strs("resources", req.Resources).Msg("Cache invalidation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to invalidate cache",
		})
	}

	logger.Get().Info().Strs("resources", req.Resources).Msg("Cache invalidated by API")
	return c.JSON(fiber.Map{
		"success":     true,
		"invalidated": req.Resources,
	})
}
