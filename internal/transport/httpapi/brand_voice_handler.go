package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spboyer/aspire-beast-social3/internal/usecase"
)

type BrandVoiceHandler struct {
	voices *usecase.BrandVoiceService
}

func NewBrandVoiceHandler(voices *usecase.BrandVoiceService) *BrandVoiceHandler {
	return &BrandVoiceHandler{voices: voices}
}

func (h *BrandVoiceHandler) Analyze(c *fiber.Ctx) error {
	var req brandVoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	voice, err := h.voices.Analyze(c.UserContext(), GetUserID(c), req.Samples)
	if err != nil {
		return err
	}
	return c.JSON(toBrandVoiceResponse(*voice))
}

// Get answers 204 when the user has no brand voice yet.
func (h *BrandVoiceHandler) Get(c *fiber.Ctx) error {
	voice, err := h.voices.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	if voice == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toBrandVoiceResponse(*voice))
}

func (h *BrandVoiceHandler) UpdateProfile(c *fiber.Ctx) error {
	var req brandVoiceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	voice, err := h.voices.UpdateProfile(c.UserContext(), GetUserID(c), usecase.ProfileUpdate{
		TargetAudience:  req.TargetAudience,
		KeyMessages:     req.KeyMessages,
		ProhibitedTerms: req.ProhibitedTerms,
	})
	if err != nil {
		return err
	}
	return c.JSON(toBrandVoiceResponse(*voice))
}
