package httpapi

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/usecase"
)

// ContentHandler serves content intake, listing and post generation.
type ContentHandler struct {
	pipeline *usecase.Pipeline
	posts    *usecase.PostService
}

func NewContentHandler(pipeline *usecase.Pipeline, posts *usecase.PostService) *ContentHandler {
	return &ContentHandler{pipeline: pipeline, posts: posts}
}

func (h *ContentHandler) IngestURL(c *fiber.Ctx) error {
	var req ingestURLRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return badRequest(c, "url is required")
	}

	content, err := h.pipeline.IngestURL(c.UserContext(), GetUserID(c), req.URL, req.Tags)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toContentResponse(*content))
}

func (h *ContentHandler) IngestDocument(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "unable to read upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "unable to read upload")
	}

	content, err := h.pipeline.IngestDocument(c.UserContext(), GetUserID(c), fh.Filename, data, splitTags(c.FormValue("tags")))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toContentResponse(*content))
}

func (h *ContentHandler) IngestText(c *fiber.Ctx) error {
	var req ingestTextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	content, err := h.pipeline.IngestText(c.UserContext(), GetUserID(c), req.Text, req.Tags)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toContentResponse(*content))
}

func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 0 || offset < 0 {
		return badRequest(c, "limit and offset must not be negative")
	}

	contents, err := h.pipeline.ListContent(c.UserContext(), GetUserID(c),
		domain.SourceKind(c.Query("kind")), uint64(limit), uint64(offset))
	if err != nil {
		return err
	}

	resp := make([]contentResponse, 0, len(contents))
	for _, content := range contents {
		resp = append(resp, toContentResponse(content))
	}
	return c.JSON(resp)
}

func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	content, err := h.owned(c)
	if err != nil {
		return err
	}
	return c.JSON(toContentResponse(*content))
}

func (h *ContentHandler) DeleteContent(c *fiber.Ctx) error {
	content, err := h.owned(c)
	if err != nil {
		return err
	}

	deleted, err := h.pipeline.DeleteContent(c.UserContext(), content.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(c, "content not found")
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *ContentHandler) GeneratePosts(c *fiber.Ctx) error {
	content, err := h.owned(c)
	if err != nil {
		return err
	}

	var req generatePostsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Platforms) == 0 {
		return badRequest(c, "at least one platform is required")
	}
	var unsupported []string
	for _, p := range req.Platforms {
		if !domain.IsSupportedPlatform(p) {
			unsupported = append(unsupported, p)
		}
	}
	if len(unsupported) > 0 {
		return badRequest(c, "unsupported platforms: "+strings.Join(unsupported, ", "))
	}

	result, err := h.posts.GeneratePosts(c.UserContext(), content.ID, req.Platforms, req.CustomInstructions)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toGenerationResponse(result))
}

// owned loads the content named by :id and hides contents of other users.
func (h *ContentHandler) owned(c *fiber.Ctx) (*domain.Content, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}

	content, err := h.pipeline.GetContent(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if content.UserID != GetUserID(c) {
		return nil, fiber.NewError(fiber.StatusNotFound, "content not found")
	}
	return content, nil
}

