package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/web"
)

// ErrorHandler answers /api routes with JSON and everything else with the
// site's error page.
func ErrorHandler(srv *web.Server) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		event := logger.Get().Warn()
		if code >= fiber.StatusInternalServerError {
			event = logger.Get().Error()
		}
		event.Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")

		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(code).JSON(fiber.Map{
				"error": http.StatusText(code),
			})
		}

		title := "state.failed"
		switch code {
		case fiber.StatusNotFound:
			title = "state.not_found"
		case fiber.StatusForbidden:
			title = "state.forbidden"
		}
		renderErr := c.Status(code).Render("site/error", srv.View(c, fiber.Map{
			"Status": code,
			"Title":  title,
		}), "layouts/site")
		if renderErr != nil {
			return c.Status(code).SendString(http.StatusText(code))
		}
		return nil
	}
}
