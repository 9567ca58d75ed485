package http

import (
	"os"
	"path/filepath"

	"ocean_server/core/domain"
	"ocean_server/core/port/in"
	"ocean_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// EmailHandler exposes the batch processing pipeline and the seed
// inbox.
type EmailHandler struct {
	processor in.EmailProcessor
	dataDir   string
}

func NewEmailHandler(processor in.EmailProcessor, dataDir string) *EmailHandler {
	return &EmailHandler{processor: processor, dataDir: dataDir}
}

func (h *EmailHandler) Register(app fiber.Router) {
	emails := app.Group("/emails")
	emails.Get("/load", h.Load)
	emails.Post("/process", h.Process)
}

type processEmailsRequest struct {
	Emails  []domain.Email      `json:"emails"`
	Prompts domain.PromptConfig `json:"prompts"`
}

// Process runs categorization and action extraction over the supplied
// batch.
func (h *EmailHandler) Process(c *fiber.Ctx) error {
	var req processEmailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if len(req.Emails) == 0 {
		return apperr.BadRequest("no emails provided")
	}

	result := h.processor.ProcessBatch(c.Context(), req.Emails, req.Prompts)
	return c.JSON(result)
}

// Load returns the seed inbox.
func (h *EmailHandler) Load(c *fiber.Ctx) error {
	data, err := os.ReadFile(filepath.Join(h.dataDir, "mock_inbox.json"))
	if err != nil {
		return apperr.InternalWithError(err)
	}

	var emails []domain.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		return apperr.InternalWithError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"emails":  emails,
		"count":   len(emails),
	})
}
