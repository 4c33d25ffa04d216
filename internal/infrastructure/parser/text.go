package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
)

const titleRunes = 50

// TextExtractor passes plain text through and derives a title from its head.
type TextExtractor struct{}

var _ extractor.Extractor = TextExtractor{}

func (TextExtractor) Kind() domain.SourceKind {
	return domain.SourceText
}

func (TextExtractor) Extract(_ context.Context, src extractor.Source) (extractor.Result, error) {
	body := strings.TrimSpace(src.Text)
	if body == "" {
		return extractor.Result{}, fmt.Errorf("%w: text is empty", domain.ErrValidation)
	}
	return extractor.Result{Title: TitleFromText(body), Body: body}, nil
}

// TitleFromText returns the first 50 characters of text, with an ellipsis when it was cut.
func TitleFromText(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= titleRunes {
		return string(runes)
	}
	return string(runes[:titleRunes]) + "..."
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
