package extractor

import (
	"context"
	"fmt"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
)

// Source carries a raw submission. Only the fields relevant to Kind are read.
type Source struct {
	Kind     domain.SourceKind
	URL      string
	Filename string
	Data     []byte
	Text     string
}

// Result is the normalized output of an extraction.
type Result struct {
	Title string
	Body  string
}

// Extractor captures one strategy (URL scraping, document decoding, plain text).
type Extractor interface {
	Kind() domain.SourceKind
	Extract(ctx context.Context, src Source) (Result, error)
}

// Registry keeps a mapping from source kinds to their extractors.
type Registry struct {
	extractors map[domain.SourceKind]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[domain.SourceKind]Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(ex Extractor) {
	if r.extractors == nil {
		r.extractors = map[domain.SourceKind]Extractor{}
	}
	r.extractors[ex.Kind()] = ex
}

// Resolve returns the extractor for kind or an error if it is absent.
func (r *Registry) Resolve(kind domain.SourceKind) (Extractor, error) {
	if ex, ok := r.extractors[kind]; ok {
		return ex, nil
	}
	return nil, fmt.Errorf("%w: no extractor registered for %q", domain.ErrUnsupportedFormat, kind)
}
