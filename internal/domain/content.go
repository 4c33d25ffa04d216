package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind tells how a Content entered the system. It never changes after creation.
type SourceKind string

const (
	SourceURL      SourceKind = "url"
	SourceDocument SourceKind = "document"
	SourceText     SourceKind = "text"
	SourceImage    SourceKind = "image"
)

// Valid reports whether the kind is one of the known source kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceURL, SourceDocument, SourceText, SourceImage:
		return true
	}
	return false
}

// Content is one submitted piece of source material plus its derived analysis.
type Content struct {
	ID             uuid.UUID
	UserID         string
	Title          string
	OriginalText   string
	ProcessedText  string
	Summary        string
	KeyPoints      string
	Tone           string
	Industry       string
	SourceKind     SourceKind
	SourceURL      string
	SourceFilename string
	ArchiveKey     string
	Tags           []string
	Posts          []Post
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Post is a platform-specific draft generated from a Content.
type Post struct {
	ID              uuid.UUID
	ContentID       uuid.UUID
	Platform        string
	Text            string
	Hashtags        string
	CharCount       int
	ImageSuggestion string
	CallToAction    string
	ScheduledAt     *time.Time
	Posted          bool
	PostedAt        *time.Time
	PostURL         string
	Metrics         *Metrics
	CreatedAt       time.Time
}

// Metrics holds engagement counters for a Post. They are written by external collectors.
type Metrics struct {
	PostID         uuid.UUID
	Views          int64
	Likes          int64
	Shares         int64
	Comments       int64
	Clicks         int64
	EngagementRate float64
	UpdatedAt      time.Time
}

// ComputeEngagementRate derives the percentage of views that produced an interaction.
func (m *Metrics) ComputeEngagementRate() {
	if m.Views <= 0 {
		m.EngagementRate = 0
		return
	}
	interactions := m.Likes + m.Shares + m.Comments + m.Clicks
	m.EngagementRate = float64(interactions) / float64(m.Views) * 100
}

// Tag is a globally unique label attached to contents.
type Tag struct {
	ID   uuid.UUID
	Name string
}

// Analysis is the derived view of a body of text.
type Analysis struct {
	Summary   string
	KeyPoints []string
	Tone      string
	Industry  string
}
