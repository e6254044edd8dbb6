package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/forms"
)

// ValidatedKey is the Locals key ValidateBody stores the parsed body under.
const ValidatedKey = "validated"

// ValidateBody parses the request body into a fresh T and validates it with
// the form rules. On success the value is available through Validated.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if errs := forms.Validate(body); errs != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": errs,
			})
		}

		c.Locals(ValidatedKey, body)
		return c.Next()
	}
}

// Validated returns the body stored by ValidateBody.
func Validated[T any](c *fiber.Ctx) *T {
	v, _ := c.Locals(ValidatedKey).(*T)
	return v
}
