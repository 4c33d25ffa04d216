package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	short := "one two   three"
	assert.Equal(t, "one two three", Summarize(short))

	words := make([]string, 60)
	for i := range words {
		words[i] = "w"
	}
	got := Summarize(strings.Join(words, " "))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, strings.Fields(strings.TrimSuffix(got, "...")), 50)

	exact := strings.Join(words[:50], " ")
	assert.Equal(t, exact, Summarize(exact))
}

func TestKeyPoints(t *testing.T) {
	text := "Too short. This sentence is clearly long enough. Another qualifying sentence is here. " +
		"Third long sentence also qualifies. Fourth long sentence is never returned."

	points := KeyPoints(text)
	require.Len(t, points, 3)
	assert.Equal(t, "This sentence is clearly long enough", points[0])
	assert.Equal(t, "Third long sentence also qualifies", points[2])

	assert.Empty(t, KeyPoints("tiny. words. only."))
	assert.Equal(t, "• a\n• b", FormatKeyPoints([]string{"a", "b"}))
}

func TestDetectTonePriority(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"An AMAZING business strategy", ToneEnthusiastic},
		{"Our business faces a challenge", ToneProfessional},
		{"We solved the problem and it was fun", ToneProblemSolving},
		{"Let's celebrate", TonePlayful},
		{"The meeting is on Tuesday", ToneInformative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectTone(tt.text), tt.text)
	}
}

func TestDetectIndustry(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"New software release", "Technology"},
		{"A campaign for our brand", "Marketing"},
		{"Patient wellness tips", "Healthcare"},
		{"Investment banking outlook", "Finance"},
		{"Student teaching guide", "Education"},
		{"A walk in the park", IndustryGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectIndustry(tt.text), tt.text)
	}
}

func TestHeuristicAnalyze(t *testing.T) {
	res, err := Heuristic{}.Analyze(context.Background(), "This is an exciting software launch for everyone.")
	require.NoError(t, err)
	assert.Equal(t, ToneEnthusiastic, res.Tone)
	assert.Equal(t, "Technology", res.Industry)
	assert.Equal(t, "This is an exciting software launch for everyone.", res.Summary)
	assert.Equal(t, []string{"This is an exciting software launch for everyone"}, res.KeyPoints)
}

func TestValidSamples(t *testing.T) {
	assert.Empty(t, ValidSamples([]string{"short", "   padded   "}))
	assert.Equal(t, []string{"this text is exactly twenty+"}, ValidSamples([]string{"short", "this text is exactly twenty+"}))
	assert.Len(t, ValidSamples([]string{strings.Repeat("x", 20)}), 1)
	assert.Empty(t, ValidSamples([]string{strings.Repeat("x", 19)}))
}

func TestVoiceCharacteristics(t *testing.T) {
	assert.Equal(t, []string{"Concise", "Enthusiastic", "Direct address"}, VoiceCharacteristics("You will love it! Try your best."))
	assert.Equal(t, []string{"Concise", "Inclusive"}, VoiceCharacteristics("We ship on Fridays. Join us."))
	assert.Equal(t, []string{"Concise"}, VoiceCharacteristics("Business is usually busy."))

	detailed := strings.Repeat("word ", 25) + "."
	assert.Equal(t, []string{"Detailed"}, VoiceCharacteristics(detailed))

	moderate := strings.Repeat("word ", 15) + "."
	assert.Equal(t, []string{"Moderate length"}, VoiceCharacteristics(moderate))
}

func TestDeriveBrandVoice(t *testing.T) {
	p := DeriveBrandVoice("Our professional team builds software for you.")
	assert.Equal(t, "Professional and authoritative", p.Tone)
	assert.Equal(t, "Concise, Direct address, Inclusive", p.VoiceCharacteristics)
	assert.Equal(t, "English", p.PreferredLanguage)
	assert.Equal(t, "Technology", p.Industry)
}
