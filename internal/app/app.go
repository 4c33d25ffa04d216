package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/spboyer/aspire-beast-social3/internal/analysis"
	"github.com/spboyer/aspire-beast-social3/internal/config"
	"github.com/spboyer/aspire-beast-social3/internal/generator"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/archive"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/parser"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/scheduler"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/storage"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/telegram"
	"github.com/spboyer/aspire-beast-social3/internal/logging"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
	"github.com/spboyer/aspire-beast-social3/internal/transport/httpapi"
	"github.com/spboyer/aspire-beast-social3/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB

	pipeline *usecase.Pipeline
	posts    *usecase.PostService
	voices   *usecase.BrandVoiceService
	digest   *usecase.CalendarDigest
	server   *fiber.App
}

// New opens the store, migrates it and builds every use case.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	store := storage.NewGormStore(db)

	registry := parser.NewDefaultRegistry(
		parser.NewURLExtractor(&http.Client{Timeout: cfg.Extractor.FetchTimeout.Std()}, cfg.Extractor.UserAgent,
			baseLogger.With("component", "extractor.url")),
		parser.NewDocumentExtractor(baseLogger.With("component", "extractor.document")),
	)

	var docArchive ports.DocumentArchive
	if cfg.Archive.Enabled() {
		client, err := archive.NewS3Client(ctx, cfg.Archive)
		if err != nil {
			closeDB(db)
			return nil, fmt.Errorf("archive client: %w", err)
		}
		docArchive = archive.NewS3Archive(client, cfg.Archive.Bucket, baseLogger.With("component", "archive"))
	}

	timeout := cfg.Database.Timeout.Std()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Extractor: parser.NewStrategySource(registry, baseLogger.With("component", "source")),
		Analyzer:  analysis.Heuristic{},
		Store:     store,
		Archive:   docArchive,
		Logger:    baseLogger.With("component", "pipeline"),
		Timeout:   timeout,
	})

	writer := generator.New(generator.NewRandPicker(cfg.Generation.Seed), baseLogger.With("component", "generator"))
	posts := usecase.NewPostService(usecase.PostServiceDeps{
		Store:       store,
		Writer:      writer,
		Hashtags:    writer,
		Logger:      baseLogger.With("component", "posts"),
		Timeout:     timeout,
		Concurrency: cfg.Generation.Concurrency,
	})
	voices := usecase.NewBrandVoiceService(store, baseLogger.With("component", "brand_voice"), timeout)

	var (
		driver   ports.Scheduler
		notifier ports.Notifier
	)
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
		driver = scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location(),
			baseLogger.With("component", "scheduler"))
	}
	digest := usecase.NewCalendarDigest(driver, store, notifier, cfg.Scheduler.DigestWindow.Std(),
		cfg.Scheduler.Location(), baseLogger.With("component", "digest"))

	server := httpapi.NewServer(httpapi.ServerDeps{
		Pipeline:   pipeline,
		Posts:      posts,
		BrandVoice: voices,
		HTTP:       cfg.HTTP,
		JWTSecret:  cfg.Auth.JWTSecret,
		Logger:     baseLogger.With("component", "http"),
		AccessLog:  cfg.Logging.Level == "debug",
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		db:       db,
		pipeline: pipeline,
		posts:    posts,
		voices:   voices,
		digest:   digest,
		server:   server,
	}, nil
}

func (a *Application) Pipeline() *usecase.Pipeline { return a.pipeline }

func (a *Application) Posts() *usecase.PostService { return a.posts }

func (a *Application) BrandVoice() *usecase.BrandVoiceService { return a.voices }

// Run serves the HTTP API and the calendar digest until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.digest.Start(ctx); err != nil {
		return fmt.Errorf("start digest: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Listen(a.cfg.HTTP.Addr)
	}()
	a.logger.Info("http server listening", "addr", a.cfg.HTTP.Addr)

	var runErr error
	select {
	case err := <-errCh:
		runErr = err
	case <-ctx.Done():
		a.logger.Info("shutting down")
	}

	if err := a.server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		a.logger.Warn("http shutdown failed", "error", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.digest.Stop(stopCtx); err != nil {
		a.logger.Warn("digest stop failed", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return runErr
	}
	return nil
}

// Close releases the database connection pool.
func (a *Application) Close() {
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
