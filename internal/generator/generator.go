// Package generator shapes platform drafts from analyzed text.
package generator

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const (
	charsPerWord       = 5
	maxDerivedHashtags = 5
	maxHashtags        = 10
	minHashtagWordLen  = 4
	truncationSuffix   = "..."
)

var imageSuggestions = []string{
	"A clean, minimalist graphic with the key message in bold typography",
	"A behind-the-scenes photo of the team at work",
	"An infographic summarizing the main points",
	"A vibrant stock photo that matches the topic",
	"A short looping animation highlighting the headline",
	"A quote card featuring the most memorable line",
	"A carousel of screenshots illustrating each step",
}

// Heuristic implements ports.PostWriter by trimming text to the platform budget.
type Heuristic struct {
	picker ports.Picker
	logger *slog.Logger
}

var (
	_ ports.PostWriter       = (*Heuristic)(nil)
	_ ports.HashtagGenerator = (*Heuristic)(nil)
)

// New builds a writer. A nil picker uses a time-seeded source.
func New(picker ports.Picker, log *slog.Logger) *Heuristic {
	if picker == nil {
		picker = NewRandPicker(0)
	}
	return &Heuristic{picker: picker, logger: log}
}

// Write produces a draft whose character count never exceeds the platform limit.
func (h *Heuristic) Write(_ context.Context, req domain.DraftRequest) (domain.Draft, error) {
	profile := domain.ResolvePlatform(req.Platform)

	if h.logger != nil {
		h.logger.Debug("write draft",
			"platform", req.Platform,
			"style", profile.Style,
			"instructions", req.CustomInstructions,
			"brand_tone", req.BrandTone)
	}

	text := FitText(req.Text, profile.CharacterLimit)
	return domain.Draft{
		Platform:        req.Platform,
		Text:            text,
		Hashtags:        h.Hashtags(req.Text, req.Platform),
		CharCount:       utf8.RuneCountInString(text),
		ImageSuggestion: pick(h.picker, imageSuggestions),
		CallToAction:    pick(h.picker, profile.CallsToAction),
	}, nil
}

// Hashtags derives up to five tags from long words, then appends the platform's fixed set.
func (h *Heuristic) Hashtags(text, platform string) []string {
	return Hashtags(text, platform)
}

// FitText keeps limit/5 words and hard-truncates to limit-3 characters plus "..." if still too long.
func FitText(text string, limit int) string {
	words := strings.Fields(text)
	if n := limit / charsPerWord; len(words) > n {
		words = words[:n]
	}
	draft := strings.Join(words, " ")

	runes := []rune(draft)
	if len(runes) <= limit {
		return draft
	}
	return string(runes[:limit-len(truncationSuffix)]) + truncationSuffix
}

// Hashtags is the stateless form of (*Heuristic).Hashtags. Word length is measured
// before trailing punctuation is stripped; repeated words count once.
func Hashtags(text, platform string) []string {
	profile := domain.ResolvePlatform(platform)

	tags := make([]string, 0, maxHashtags)
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, word := range strings.Fields(text) {
		if len(tags) == maxDerivedHashtags {
			break
		}
		if utf8.RuneCountInString(word) <= minHashtagWordLen {
			continue
		}
		word = strings.TrimRight(word, ",.!?")
		if word == "" {
			continue
		}
		key := strings.ToLower(word)
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		tags = append(tags, "#"+word)
	}

	tags = append(tags, profile.Hashtags...)
	if len(tags) > maxHashtags {
		tags = tags[:maxHashtags]
	}
	return tags
}

func pick(p ports.Picker, options []string) string {
	if len(options) == 0 {
		return ""
	}
	i := p.Intn(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}

// RandPicker is a goroutine-safe ports.Picker over math/rand/v2.
type RandPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandPicker seeds the picker; seed 0 means seed from the clock.
func NewRandPicker(seed uint64) *RandPicker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandPicker{rnd: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (r *RandPicker) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.IntN(n)
}
