package http

import (
	"os"
	"path/filepath"

	"ocean_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// DataHandler serves the seed JSON files consumed by the frontend.
type DataHandler struct {
	dataDir string
}

func NewDataHandler(dataDir string) *DataHandler {
	return &DataHandler{dataDir: dataDir}
}

func (h *DataHandler) Register(app fiber.Router) {
	data := app.Group("/data")
	data.Get("/default_prompts.json", h.serveFile("default_prompts.json"))
	data.Get("/mock_inbox.json", h.serveFile("mock_inbox.json"))
}

func (h *DataHandler) serveFile(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := os.ReadFile(filepath.Join(h.dataDir, name))
		if err != nil {
			return apperr.InternalWithError(err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}
}
