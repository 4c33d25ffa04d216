package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spboyer/aspire-beast-social3/internal/extractor"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

// StrategySource implements ports.Extractor via registered extraction strategies.
type StrategySource struct {
	registry *extractor.Registry
	logger   *slog.Logger
}

var _ ports.Extractor = (*StrategySource)(nil)

// NewStrategySource wires the extractor registry.
func NewStrategySource(reg *extractor.Registry, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		logger:   log,
	}
}

// Extract resolves the strategy for src.Kind and runs it.
func (s *StrategySource) Extract(ctx context.Context, src extractor.Source) (extractor.Result, error) {
	if s.registry == nil {
		return extractor.Result{}, fmt.Errorf("extractor registry is not configured")
	}

	strategy, err := s.registry.Resolve(src.Kind)
	if err != nil {
		return extractor.Result{}, err
	}

	s.debug("extract source", "kind", src.Kind, "url", src.URL, "file", src.Filename)

	result, err := strategy.Extract(ctx, src)
	if err != nil {
		return extractor.Result{}, fmt.Errorf("extract %s: %w", src.Kind, err)
	}

	if strings.TrimSpace(result.Title) == "" {
		result.Title = TitleFromText(result.Body)
	}

	s.debug("source extracted", "kind", src.Kind, "title", result.Title)
	return result, nil
}

// NewDefaultRegistry registers the URL, document and text strategies.
func NewDefaultRegistry(urls *URLExtractor, docs *DocumentExtractor) *extractor.Registry {
	registry := extractor.NewRegistry()
	registry.Register(urls)
	registry.Register(docs)
	registry.Register(TextExtractor{})
	return registry
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
