package middleware

import (
	"bytes"

	"warehouse-inventory-api/internal/model"

	"github.com/gofiber/fiber/v2"
)

// ValidateID rejects ids that do not parse in the given format.
func ValidateID(format model.IDFormat, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !format.Valid(c.Params(param)) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID format"})
		}
		return c.Next()
	}
}

// RequireBody rejects an absent body or an empty JSON object.
func RequireBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := bytes.TrimSpace(c.Body())
		if len(body) == 0 || bytes.Equal(body, []byte("null")) || isEmptyObject(body) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body is required"})
		}
		return c.Next()
	}
}

func isEmptyObject(body []byte) bool {
	if len(body) < 2 || body[0] != '{' || body[len(body)-1] != '}' {
		return false
	}
	return len(bytes.TrimSpace(body[1:len(body)-1])) == 0
}
