package http

import (
	"time"

	"ocean_server/core/domain"
	"ocean_server/core/port/out"
	"ocean_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// DraftHandler exposes the draft store.
type DraftHandler struct {
	drafts out.DraftStore
}

func NewDraftHandler(drafts out.DraftStore) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

func (h *DraftHandler) Register(app fiber.Router) {
	drafts := app.Group("/drafts")
	drafts.Get("/", h.List)
	drafts.Post("/", h.Save)
	drafts.Delete("/:id", h.Delete)
}

func (h *DraftHandler) List(c *fiber.Ctx) error {
	drafts, err := h.drafts.List()
	if err != nil {
		return apperr.InternalWithError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"drafts":  drafts,
		"count":   len(drafts),
	})
}

// Save upserts a draft. Missing ids and timestamps are filled in.
func (h *DraftHandler) Save(c *fiber.Ctx) error {
	var draft domain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if draft.To == "" {
		return apperr.MissingField("to")
	}
	if draft.Subject == "" {
		return apperr.MissingField("subject")
	}

	now := time.Now()
	if draft.ID == "" {
		draft.ID = domain.NewDraftID(draft.OriginalEmailID, now)
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}

	if err := h.drafts.Save(draft); err != nil {
		return apperr.InternalWithError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Draft saved successfully",
		"draft":   draft,
	})
}

func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.drafts.Delete(c.Params("id")); err != nil {
		return apperr.InternalWithError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Draft deleted successfully",
	})
}
