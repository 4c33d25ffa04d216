package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spboyer/aspire-beast-social3/internal/usecase"
)

const defaultCalendarWindow = 7 * 24 * time.Hour

// PostHandler serves post edits, scheduling, metrics and hashtag suggestions.
type PostHandler struct {
	posts *usecase.PostService
}

func NewPostHandler(posts *usecase.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) GenerateHashtags(c *fiber.Ctx) error {
	var req hashtagsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(fiber.Map{"hashtags": h.posts.GenerateHashtags(req.Text, req.Platform)})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	post, err := h.posts.UpdatePost(c.UserContext(), id, usecase.PostUpdate{Text: req.Text, Hashtags: req.Hashtags})
	if err != nil {
		return err
	}
	return c.JSON(toPostResponse(*post))
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body, scheduledAt must be RFC 3339")
	}

	ok, err := h.posts.SchedulePost(c.UserContext(), id, req.ScheduledAt, req.Timezone)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"scheduled": ok})
}

func (h *PostHandler) RecordMetrics(c *fiber.Ctx) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	var req metricsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	m, err := h.posts.RecordMetrics(c.UserContext(), id, usecase.MetricsInput{
		Views:    req.Views,
		Likes:    req.Likes,
		Shares:   req.Shares,
		Comments: req.Comments,
		Clicks:   req.Clicks,
	})
	if err != nil {
		return err
	}
	return c.JSON(toMetricsResponse(*m))
}

func (h *PostHandler) Calendar(c *fiber.Ctx) error {
	window := defaultCalendarWindow
	if raw := c.Query("within"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return badRequest(c, "within must be a duration such as 24h")
		}
		window = d
	}

	entries, err := h.posts.Upcoming(c.UserContext(), GetUserID(c), window)
	if err != nil {
		return err
	}
	return c.JSON(toCalendarResponse(entries))
}

func (h *PostHandler) owned(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := pathID(c)
	if err != nil {
		return uuid.Nil, err
	}

	owner, err := h.posts.OwnerOf(c.UserContext(), id)
	if err != nil {
		return uuid.Nil, err
	}
	if owner != GetUserID(c) {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "post not found")
	}
	return id, nil
}
