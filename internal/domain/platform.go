package domain

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	PlatformTwitter   = "Twitter"
	PlatformLinkedIn  = "LinkedIn"
	PlatformInstagram = "Instagram"
	PlatformFacebook  = "Facebook"
	PlatformTikTok    = "TikTok"
)

// PlatformProfile is the static configuration used to shape drafts for one platform.
type PlatformProfile struct {
	Name           string
	CharacterLimit int
	Style          string
	Hashtags       []string
	CallsToAction  []string
}

var platforms = map[string]PlatformProfile{
	PlatformTwitter: {
		Name:           PlatformTwitter,
		CharacterLimit: 280,
		Style:          "concise and punchy",
		Hashtags:       []string{"#Trending", "#News"},
		CallsToAction: []string{
			"What do you think?",
			"Retweet if you agree!",
			"Share your thoughts below 👇",
		},
	},
	PlatformLinkedIn: {
		Name:           PlatformLinkedIn,
		CharacterLimit: 3000,
		Style:          "professional and insightful",
		Hashtags:       []string{"#Professional", "#Business", "#Leadership"},
		CallsToAction: []string{
			"What are your thoughts on this?",
			"How does this apply to your industry?",
			"I'd love to hear your perspective in the comments.",
		},
	},
	PlatformInstagram: {
		Name:           PlatformInstagram,
		CharacterLimit: 2200,
		Style:          "visual and inspiring",
		Hashtags:       []string{"#InstaGood", "#Inspiration", "#PhotoOfTheDay"},
		CallsToAction: []string{
			"Double tap if you agree! ❤️",
			"Tag someone who needs to see this!",
			"Save this post for later!",
		},
	},
	PlatformFacebook: {
		Name:           PlatformFacebook,
		CharacterLimit: 63206,
		Style:          "conversational and community-oriented",
		Hashtags:       []string{"#Community", "#Share"},
		CallsToAction: []string{
			"Share this with your friends!",
			"What's your experience with this?",
			"Let us know in the comments!",
		},
	},
	PlatformTikTok: {
		Name:           PlatformTikTok,
		CharacterLimit: 150,
		Style:          "short, fun and trendy",
		Hashtags:       []string{"#FYP", "#ForYou", "#Viral"},
		CallsToAction: []string{
			"Follow for more!",
			"Duet this!",
			"Comment your answer!",
		},
	},
}

var supported = mapset.NewSet[string](
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformFacebook,
	PlatformTikTok,
)

// ResolvePlatform returns the profile for name. Unknown names fall back to the Twitter profile.
func ResolvePlatform(name string) PlatformProfile {
	if p, ok := platforms[CanonicalPlatform(name)]; ok {
		return p
	}
	return platforms[PlatformTwitter]
}

// IsSupportedPlatform reports whether name (case-insensitive) is a known platform.
func IsSupportedPlatform(name string) bool {
	return supported.Contains(CanonicalPlatform(name))
}

// CanonicalPlatform maps a case-insensitive platform name to its canonical spelling.
// Unknown names are returned trimmed but otherwise unchanged.
func CanonicalPlatform(name string) string {
	trimmed := strings.TrimSpace(name)
	for known := range platforms {
		if strings.EqualFold(known, trimmed) {
			return known
		}
	}
	return trimmed
}

// SupportedPlatforms lists the known platform names in a stable order.
func SupportedPlatforms() []string {
	return []string{PlatformTwitter, PlatformLinkedIn, PlatformInstagram, PlatformFacebook, PlatformTikTok}
}

// DraftRequest is the input of a post writer.
type DraftRequest struct {
	Text               string
	Platform           string
	CustomInstructions string
	BrandTone          string
}

// Draft is a generated, not yet persisted post body.
type Draft struct {
	Platform        string
	Text            string
	Hashtags        []string
	CharCount       int
	ImageSuggestion string
	CallToAction    string
}
