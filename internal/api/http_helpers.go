package api

import "github.com/gofiber/fiber/v2"

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// fieldError is one failing field of a rejected payload. Validation reports
// every failing field at once rather than stopping at the first.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validationError(c *fiber.Ctx, fields []fieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}
