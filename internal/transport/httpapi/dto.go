package httpapi

import (
	"time"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/usecase"
)

type ingestURLRequest struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

type ingestTextRequest struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

type generatePostsRequest struct {
	Platforms          []string `json:"platforms"`
	CustomInstructions string   `json:"customInstructions"`
}

type hashtagsRequest struct {
	Text     string `json:"text"`
	Platform string `json:"platform"`
}

type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduledAt"`
	Timezone    string    `json:"timezone"`
}

type updatePostRequest struct {
	Text     *string `json:"text"`
	Hashtags *string `json:"hashtags"`
}

type metricsRequest struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Clicks   int64 `json:"clicks"`
}

type brandVoiceRequest struct {
	Samples []string `json:"samples"`
}

type brandVoiceUpdateRequest struct {
	TargetAudience  *string `json:"targetAudience"`
	KeyMessages     *string `json:"keyMessages"`
	ProhibitedTerms *string `json:"prohibitedTerms"`
}

type contentResponse struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Title          string         `json:"title"`
	OriginalText   string         `json:"originalText"`
	ProcessedText  string         `json:"processedText"`
	Summary        string         `json:"summary"`
	KeyPoints      string         `json:"keyPoints"`
	Tone           string         `json:"tone"`
	Industry       string         `json:"industry"`
	SourceKind     string         `json:"sourceKind"`
	SourceURL      string         `json:"sourceUrl,omitempty"`
	SourceFilename string         `json:"sourceFilename,omitempty"`
	ArchiveKey     string         `json:"archiveKey,omitempty"`
	Tags           []string       `json:"tags"`
	Posts          []postResponse `json:"posts"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type postResponse struct {
	ID              string           `json:"id"`
	ContentID       string           `json:"contentId"`
	Platform        string           `json:"platform"`
	Text            string           `json:"text"`
	Hashtags        string           `json:"hashtags"`
	CharCount       int              `json:"charCount"`
	ImageSuggestion string           `json:"imageSuggestion"`
	CallToAction    string           `json:"callToAction"`
	ScheduledAt     *time.Time       `json:"scheduledAt"`
	Posted          bool             `json:"posted"`
	PostedAt        *time.Time       `json:"postedAt"`
	PostURL         string           `json:"postUrl,omitempty"`
	Metrics         *metricsResponse `json:"metrics,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type metricsResponse struct {
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	Shares         int64     `json:"shares"`
	Comments       int64     `json:"comments"`
	Clicks         int64     `json:"clicks"`
	EngagementRate float64   `json:"engagementRate"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type generationResponse struct {
	Requested int               `json:"requested"`
	Posts     []postResponse    `json:"posts"`
	Failures  []failureResponse `json:"failures"`
}

type failureResponse struct {
	Platform string `json:"platform"`
	Error    string `json:"error"`
}

type brandVoiceResponse struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Tone                 string    `json:"tone"`
	VoiceCharacteristics string    `json:"voiceCharacteristics"`
	PreferredLanguage    string    `json:"preferredLanguage"`
	TargetAudience       string    `json:"targetAudience"`
	Industry             string    `json:"industry"`
	KeyMessages          string    `json:"keyMessages"`
	ProhibitedTerms      string    `json:"prohibitedTerms"`
	SampleTexts          string    `json:"sampleTexts"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type calendarEntryResponse struct {
	ID                string    `json:"id"`
	PostID            string    `json:"postId"`
	ScheduledAt       time.Time `json:"scheduledAt"`
	Timezone          string    `json:"timezone"`
	Recurring         bool      `json:"recurring"`
	RecurrencePattern string    `json:"recurrencePattern,omitempty"`
	Status            string    `json:"status"`
}

func toContentResponse(c domain.Content) contentResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	posts := make([]postResponse, 0, len(c.Posts))
	for _, p := range c.Posts {
		posts = append(posts, toPostResponse(p))
	}
	return contentResponse{
		ID:             c.ID.String(),
		UserID:         c.UserID,
		Title:          c.Title,
		OriginalText:   c.OriginalText,
		ProcessedText:  c.ProcessedText,
		Summary:        c.Summary,
		KeyPoints:      c.KeyPoints,
		Tone:           c.Tone,
		Industry:       c.Industry,
		SourceKind:     string(c.SourceKind),
		SourceURL:      c.SourceURL,
		SourceFilename: c.SourceFilename,
		ArchiveKey:     c.ArchiveKey,
		Tags:           tags,
		Posts:          posts,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toPostResponse(p domain.Post) postResponse {
	resp := postResponse{
		ID:              p.ID.String(),
		ContentID:       p.ContentID.String(),
		Platform:        p.Platform,
		Text:            p.Text,
		Hashtags:        p.Hashtags,
		CharCount:       p.CharCount,
		ImageSuggestion: p.ImageSuggestion,
		CallToAction:    p.CallToAction,
		ScheduledAt:     p.ScheduledAt,
		Posted:          p.Posted,
		PostedAt:        p.PostedAt,
		PostURL:         p.PostURL,
		CreatedAt:       p.CreatedAt,
	}
	if p.Metrics != nil {
		m := toMetricsResponse(*p.Metrics)
		resp.Metrics = &m
	}
	return resp
}

func toMetricsResponse(m domain.Metrics) metricsResponse {
	return metricsResponse{
		Views:          m.Views,
		Likes:          m.Likes,
		Shares:         m.Shares,
		Comments:       m.Comments,
		Clicks:         m.Clicks,
		EngagementRate: m.EngagementRate,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toGenerationResponse(r usecase.GenerationResult) generationResponse {
	resp := generationResponse{
		Requested: r.Requested,
		Posts:     make([]postResponse, 0, len(r.Posts)),
		Failures:  make([]failureResponse, 0, len(r.Failures)),
	}
	for _, p := range r.Posts {
		resp.Posts = append(resp.Posts, toPostResponse(p))
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, failureResponse{Platform: f.Platform, Error: f.Err.Error()})
	}
	return resp
}

func toBrandVoiceResponse(b domain.BrandVoice) brandVoiceResponse {
	return brandVoiceResponse{
		ID:                   b.ID.String(),
		UserID:               b.UserID,
		Tone:                 b.Tone,
		VoiceCharacteristics: b.VoiceCharacteristics,
		PreferredLanguage:    b.PreferredLanguage,
		TargetAudience:       b.TargetAudience,
		Industry:             b.Industry,
		KeyMessages:          b.KeyMessages,
		ProhibitedTerms:      b.ProhibitedTerms,
		SampleTexts:          b.SampleTexts,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func toCalendarResponse(entries []domain.CalendarEntry) []calendarEntryResponse {
	out := make([]calendarEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, calendarEntryResponse{
			ID:                e.ID.String(),
			PostID:            e.PostID.String(),
			ScheduledAt:       e.ScheduledAt,
			Timezone:          e.Timezone,
			Recurring:         e.Recurring,
			RecurrencePattern: e.RecurrencePattern,
			Status:            string(e.Status),
		})
	}
	return out
}
