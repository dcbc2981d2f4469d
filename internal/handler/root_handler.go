package handler

import "github.com/gofiber/fiber/v2"

const livenessMessage = "Multi-Warehouse Inventory Management API is Activated"

// Liveness answers the root path with a static payload.
func Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": livenessMessage})
}
