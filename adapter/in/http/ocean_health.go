package http

import (
	"github.com/gofiber/fiber/v2"
)

const apiVersion = "1.0.0"

// HealthHandler answers liveness and hello probes.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/", h.Hello)
	app.Get("/hello", h.Hello)
	app.Get("/status", h.Status)
}

func (h *HealthHandler) Hello(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Hello from Ocean AI Backend!",
		"status":  "success",
	})
}

func (h *HealthHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "online",
		"version": apiVersion,
	})
}
