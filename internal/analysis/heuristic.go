// Package analysis holds the keyword heuristics that stand in for a language model.
// Everything here is pure; callers reach it through ports.Analyzer so a model-backed
// implementation can replace it.
package analysis

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const (
	summaryWords      = 50
	maxKeyPoints      = 3
	minKeyPointLength = 20
	keyPointSeparator = "."
	summaryEllipsis   = "..."
	keyPointBullet    = "• "
	keyPointLineBreak = "\n"
)

// Heuristic implements ports.Analyzer with truncation and keyword rules.
type Heuristic struct{}

var _ ports.Analyzer = Heuristic{}

// Analyze never fails; the error is part of the port for model-backed analyzers.
func (Heuristic) Analyze(_ context.Context, text string) (domain.Analysis, error) {
	return domain.Analysis{
		Summary:   Summarize(text),
		KeyPoints: KeyPoints(text),
		Tone:      DetectTone(text),
		Industry:  DetectIndustry(text),
	}, nil
}

// Summarize keeps the first 50 whitespace-separated tokens.
func Summarize(text string) string {
	words := strings.Fields(text)
	if len(words) <= summaryWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:summaryWords], " ") + summaryEllipsis
}

// KeyPoints returns up to three sentences longer than 20 characters.
func KeyPoints(text string) []string {
	var points []string
	for _, sentence := range strings.Split(text, keyPointSeparator) {
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) <= minKeyPointLength {
			continue
		}
		points = append(points, sentence)
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

// FormatKeyPoints renders key points as a bulleted block for storage.
func FormatKeyPoints(points []string) string {
	lines := make([]string, 0, len(points))
	for _, p := range points {
		lines = append(lines, keyPointBullet+p)
	}
	return strings.Join(lines, keyPointLineBreak)
}
