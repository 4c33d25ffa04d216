package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spboyer/aspire-beast-social3/internal/analysis"
	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

// MinTextLength is the shortest plain text accepted for ingestion.
const MinTextLength = 10

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Extractor ports.Extractor
	Analyzer  ports.Analyzer
	Store     ports.Store
	Archive   ports.DocumentArchive
	Logger    *slog.Logger
	// Timeout bounds every store call. Zero disables the bound.
	Timeout time.Duration
}

// Pipeline implements content intake: extract, analyze, persist.
type Pipeline struct {
	extractor ports.Extractor
	analyzer  ports.Analyzer
	store     ports.Store
	archive   ports.DocumentArchive
	logger    *slog.Logger
	timeout   time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		extractor: deps.Extractor,
		analyzer:  deps.Analyzer,
		store:     deps.Store,
		archive:   deps.Archive,
		logger:    deps.Logger,
		timeout:   deps.Timeout,
	}
}

// IngestURL scrapes a web page and stores it as content.
func (p *Pipeline) IngestURL(ctx context.Context, userID, pageURL string, tags []string) (*domain.Content, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	res, err := p.extractor.Extract(ctx, extractor.Source{Kind: domain.SourceURL, URL: pageURL})
	if err != nil {
		return nil, err
	}

	content := newContent(userID, domain.SourceURL, res, tags)
	content.SourceURL = strings.TrimSpace(pageURL)
	return p.persist(ctx, content)
}

// IngestDocument decodes an uploaded file and stores it as content. The raw
// bytes are archived first when an archive is configured.
func (p *Pipeline) IngestDocument(ctx context.Context, userID, filename string, data []byte, tags []string) (*domain.Content, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	res, err := p.extractor.Extract(ctx, extractor.Source{Kind: domain.SourceDocument, Filename: filename, Data: data})
	if err != nil {
		return nil, err
	}

	content := newContent(userID, domain.SourceDocument, res, tags)
	content.SourceFilename = filename

	if p.archive != nil {
		key, err := p.archive.Put(ctx, filename, data)
		if err != nil {
			return nil, fmt.Errorf("%w: archive %s: %v", domain.ErrPersistence, filename, err)
		}
		content.ArchiveKey = key
		p.debug("document archived", "filename", filename, "key", key)
	}

	return p.persist(ctx, content)
}

// IngestText stores pasted text as content.
func (p *Pipeline) IngestText(ctx context.Context, userID, text string, tags []string) (*domain.Content, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		return nil, fmt.Errorf("%w: text must be at least %d characters", domain.ErrValidation, MinTextLength)
	}

	res, err := p.extractor.Extract(ctx, extractor.Source{Kind: domain.SourceText, Text: text})
	if err != nil {
		return nil, err
	}

	content := newContent(userID, domain.SourceText, res, tags)
	content.OriginalText = text
	return p.persist(ctx, content)
}

// ListContent returns the user's contents, newest first. An empty kind lists every kind.
func (p *Pipeline) ListContent(ctx context.Context, userID string, kind domain.SourceKind, limit, offset uint64) ([]domain.Content, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrValidation, kind)
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	return p.store.ListContent(ctx, ports.ListContentQuery{
		UserID: userID,
		Kind:   kind,
		Limit:  limit,
		Offset: offset,
	})
}

// GetContent loads a content with its tags and posts.
func (p *Pipeline) GetContent(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	return p.store.GetContent(ctx, id)
}

// DeleteContent removes a content and everything attached to it. It reports
// false when the content did not exist.
func (p *Pipeline) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	deleted, err := p.store.DeleteContent(ctx, id)
	if err != nil {
		return false, err
	}
	p.debug("content deleted", "content_id", id, "deleted", deleted)
	return deleted, nil
}

func (p *Pipeline) persist(ctx context.Context, content *domain.Content) (*domain.Content, error) {
	if strings.TrimSpace(content.OriginalText) == "" {
		return nil, fmt.Errorf("%w: %s source produced no text", domain.ErrDecode, content.SourceKind)
	}

	result, err := p.analyzer.Analyze(ctx, content.ProcessedText)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	content.Summary = result.Summary
	content.KeyPoints = analysis.FormatKeyPoints(result.KeyPoints)
	content.Tone = result.Tone
	content.Industry = result.Industry

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.store.CreateContent(ctx, content); err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("content ingested",
			"content_id", content.ID,
			"user_id", content.UserID,
			"kind", content.SourceKind,
			"tone", content.Tone,
			"industry", content.Industry)
	}
	return content, nil
}

func newContent(userID string, kind domain.SourceKind, res extractor.Result, tags []string) *domain.Content {
	now := time.Now().UTC()
	return &domain.Content{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         res.Title,
		OriginalText:  res.Body,
		ProcessedText: res.Body,
		SourceKind:    kind,
		Tags:          tags,
		Posts:         []domain.Post{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(msg, args...)
}
