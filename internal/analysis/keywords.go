package analysis

import "strings"

// rule maps a set of keywords to a label. Rules are evaluated in slice order and the first hit wins.
type rule struct {
	label    string
	keywords []string
}

const (
	ToneEnthusiastic   = "Enthusiastic"
	ToneProfessional   = "Professional"
	ToneProblemSolving = "Problem-solving"
	TonePlayful        = "Playful"
	ToneInformative    = "Informative"

	IndustryGeneral = "General"
)

var toneRules = []rule{
	{label: ToneEnthusiastic, keywords: []string{"exciting", "amazing", "incredible"}},
	{label: ToneProfessional, keywords: []string{"professional", "business", "strategy"}},
	{label: ToneProblemSolving, keywords: []string{"challenge", "problem", "issue"}},
	{label: TonePlayful, keywords: []string{"fun", "enjoy", "celebrate"}},
}

var industryRules = []rule{
	{label: "Technology", keywords: []string{"technology", "software", "artificial intelligence", "machine learning", "digital", "computer", "tech", "data", "cloud"}},
	{label: "Marketing", keywords: []string{"marketing", "brand", "advertising", "campaign", "customer", "seo", "social media"}},
	{label: "Healthcare", keywords: []string{"health", "medical", "patient", "doctor", "wellness", "hospital", "clinical"}},
	{label: "Finance", keywords: []string{"finance", "financial", "investment", "banking", "money", "stock", "budget", "revenue"}},
	{label: "Education", keywords: []string{"education", "learning", "student", "teaching", "school", "course", "university"}},
}

// brandTonePhrases rephrases a tone label for brand profiles.
var brandTonePhrases = map[string]string{
	ToneEnthusiastic:   "Enthusiastic and energetic",
	ToneProfessional:   "Professional and authoritative",
	ToneProblemSolving: "Solution-focused and helpful",
	TonePlayful:        "Friendly and approachable",
	ToneInformative:    "Informative and clear",
}

func match(text string, rules []rule, fallback string) string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.label
			}
		}
	}
	return fallback
}

// DetectTone returns the first tone whose keywords appear in text (case-insensitive).
func DetectTone(text string) string {
	return match(text, toneRules, ToneInformative)
}

// DetectIndustry returns the first industry whose keywords appear in text (case-insensitive).
func DetectIndustry(text string) string {
	return match(text, industryRules, IndustryGeneral)
}
