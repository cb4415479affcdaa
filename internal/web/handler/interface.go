package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Service is implemented by every route group of the API.
type Service interface {
	// Register adds the routes of the group below router.
	Register(router fiber.Router)
}
