package analysis

import (
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
)

const (
	// MinSampleLength is the shortest sample text accepted for brand voice analysis.
	MinSampleLength = 20

	preferredLanguage = "English"
	conciseBelow      = 10
	detailedAbove     = 20
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordPattern   = regexp.MustCompile(`[\p{L}']+`)

	directAddress = mapset.NewSet("you", "your")
	inclusive     = mapset.NewSet("we", "our", "us")
)

// ValidSamples keeps the samples whose trimmed length reaches MinSampleLength.
func ValidSamples(samples []string) []string {
	var valid []string
	for _, s := range samples {
		s = strings.TrimSpace(s)
		if len([]rune(s)) >= MinSampleLength {
			valid = append(valid, s)
		}
	}
	return valid
}

// DeriveBrandVoice computes the derived brand profile from already validated samples.
func DeriveBrandVoice(text string) domain.BrandVoiceProfile {
	return domain.BrandVoiceProfile{
		Tone:                 brandTonePhrases[DetectTone(text)],
		VoiceCharacteristics: strings.Join(VoiceCharacteristics(text), ", "),
		PreferredLanguage:    preferredLanguage,
		Industry:             DetectIndustry(text),
	}
}

// VoiceCharacteristics lists every trait the text exhibits, length first.
func VoiceCharacteristics(text string) []string {
	traits := []string{sentenceLengthTrait(text)}

	if strings.Contains(text, "!") {
		traits = append(traits, "Enthusiastic")
	}

	words := mapset.NewSet[string]()
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		words.Add(strings.Trim(w, "'"))
	}
	if words.Intersect(directAddress).Cardinality() > 0 {
		traits = append(traits, "Direct address")
	}
	if words.Intersect(inclusive).Cardinality() > 0 {
		traits = append(traits, "Inclusive")
	}

	return traits
}

func sentenceLengthTrait(text string) string {
	var sentences, words int
	for _, s := range sentenceSplit.Split(text, -1) {
		n := len(strings.Fields(s))
		if n == 0 {
			continue
		}
		sentences++
		words += n
	}

	avg := 0.0
	if sentences > 0 {
		avg = float64(words) / float64(sentences)
	}

	switch {
	case avg < conciseBelow:
		return "Concise"
	case avg > detailedAbove:
		return "Detailed"
	default:
		return "Moderate length"
	}
}
