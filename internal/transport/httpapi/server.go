package httpapi

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/spboyer/aspire-beast-social3/internal/config"
	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/usecase"
)

// ServerDeps wires the use cases exposed over HTTP.
type ServerDeps struct {
	Pipeline   *usecase.Pipeline
	Posts      *usecase.PostService
	BrandVoice *usecase.BrandVoiceService
	HTTP       config.HTTPConfig
	JWTSecret  string
	Logger     *slog.Logger
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// NewServer builds the fiber application with every route registered.
func NewServer(deps ServerDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "contentstudio",
		ReadTimeout:           deps.HTTP.ReadTimeout.Std(),
		WriteTimeout:          deps.HTTP.WriteTimeout.Std(),
		BodyLimit:             bodyLimit(deps.HTTP.BodyLimitMB),
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + UserIDHeader,
		MaxAge:       3600,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Use(Authenticate(deps.JWTSecret))

	content := NewContentHandler(deps.Pipeline, deps.Posts)
	api.Post("/content/url", content.IngestURL)
	api.Post("/content/document", content.IngestDocument)
	api.Post("/content/text", content.IngestText)
	api.Get("/content", content.ListContent)
	api.Get("/content/:id", content.GetContent)
	api.Delete("/content/:id", content.DeleteContent)
	api.Post("/content/:id/posts", content.GeneratePosts)

	posts := NewPostHandler(deps.Posts)
	api.Post("/hashtags", posts.GenerateHashtags)
	api.Put("/posts/:id", posts.UpdatePost)
	api.Post("/posts/:id/schedule", posts.SchedulePost)
	api.Put("/posts/:id/metrics", posts.RecordMetrics)
	api.Get("/calendar", posts.Calendar)

	voice := NewBrandVoiceHandler(deps.BrandVoice)
	api.Post("/brand-voice", voice.Analyze)
	api.Get("/brand-voice", voice.Get)
	api.Patch("/brand-voice", voice.UpdateProfile)

	return app
}

func bodyLimit(mb int) int {
	if mb <= 0 {
		return fiber.DefaultBodyLimit
	}
	return mb * 1024 * 1024
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError && log != nil {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrFetch), errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrDecode):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
