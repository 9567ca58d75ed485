package http

import (
	"ocean_server/core/domain"
	"ocean_server/core/port/in"
	"ocean_server/core/port/out"
	"ocean_server/pkg/apperr"
	"ocean_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler exposes the chat query router and persists any draft it
// emits.
type ChatHandler struct {
	chat   in.ChatService
	drafts out.DraftStore
}

func NewChatHandler(chat in.ChatService, drafts out.DraftStore) *ChatHandler {
	return &ChatHandler{chat: chat, drafts: drafts}
}

func (h *ChatHandler) Register(app fiber.Router) {
	app.Post("/chat/query", h.Query)
}

type chatQueryRequest struct {
	Query   string              `json:"query"`
	EmailID string              `json:"emailId"`
	Emails  []domain.Email      `json:"emails"`
	Prompts domain.PromptConfig `json:"prompts"`
}

// Query routes a free-text user query. The selected email is resolved
// by id from the supplied inbox.
func (h *ChatHandler) Query(c *fiber.Ctx) error {
	var req chatQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.Query == "" {
		return apperr.BadRequest("no query provided")
	}

	var selected *domain.Email
	if req.EmailID != "" {
		for i := range req.Emails {
			if req.Emails[i].ID == req.EmailID {
				selected = &req.Emails[i]
				break
			}
		}
	}

	result := h.chat.ProcessQuery(c.Context(), &in.ChatRequest{
		Query:   req.Query,
		Email:   selected,
		Emails:  req.Emails,
		Prompts: req.Prompts,
	})

	if result.Draft != nil {
		if err := h.drafts.Save(*result.Draft); err != nil {
			logger.WithError(err).Error("Failed to persist generated draft %s", result.Draft.ID)
			return apperr.InternalWithError(err)
		}
	}

	return c.JSON(result)
}
