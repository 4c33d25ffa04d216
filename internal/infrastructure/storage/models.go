package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
)

// ContentRecord is the row behind domain.Content.
type ContentRecord struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         string    `gorm:"size:128;not null;index"`
	Title          string    `gorm:"type:text;not null"`
	OriginalText   string    `gorm:"type:text;not null"`
	ProcessedText  string    `gorm:"type:text"`
	Summary        string    `gorm:"type:text"`
	KeyPoints      string    `gorm:"type:text"`
	Tone           string    `gorm:"size:64"`
	Industry       string    `gorm:"size:64"`
	SourceKind     string    `gorm:"size:16;not null"`
	SourceURL      string    `gorm:"type:text"`
	SourceFilename string    `gorm:"type:text"`
	ArchiveKey     string    `gorm:"size:256"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	Posts []PostRecord `gorm:"foreignKey:ContentID"`
	Tags  []TagRecord  `gorm:"many2many:content_tags;joinForeignKey:ContentID;joinReferences:TagID"`
}

func (ContentRecord) TableName() string { return "contents" }

// TagRecord is a globally unique label.
type TagRecord struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"type:text;not null;uniqueIndex"`
}

func (TagRecord) TableName() string { return "tags" }

// ContentTagRecord joins contents and tags.
type ContentTagRecord struct {
	ContentID string `gorm:"primaryKey;size:36"`
	TagID     string `gorm:"primaryKey;size:36"`
}

func (ContentTagRecord) TableName() string { return "content_tags" }

// PostRecord is the row behind domain.Post.
type PostRecord struct {
	ID              string `gorm:"primaryKey;size:36"`
	ContentID       string `gorm:"size:36;not null;index"`
	Platform        string `gorm:"size:64;not null"`
	Text            string `gorm:"type:text;not null"`
	Hashtags        string `gorm:"type:text"`
	CharCount       int
	ImageSuggestion string `gorm:"type:text"`
	CallToAction    string `gorm:"type:text"`
	ScheduledAt     *time.Time
	Posted          bool `gorm:"not null;default:false"`
	PostedAt        *time.Time
	PostURL         string `gorm:"type:text"`
	CreatedAt       time.Time

	Metrics *MetricsRecord `gorm:"foreignKey:PostID"`
}

func (PostRecord) TableName() string { return "posts" }

// MetricsRecord stores engagement counters, one row per post.
type MetricsRecord struct {
	PostID         string `gorm:"primaryKey;size:36"`
	Views          int64
	Likes          int64
	Shares         int64
	Comments       int64
	Clicks         int64
	EngagementRate float64
	UpdatedAt      time.Time
}

func (MetricsRecord) TableName() string { return "post_metrics" }

// BrandVoiceRecord is the row behind domain.BrandVoice.
type BrandVoiceRecord struct {
	ID                   string `gorm:"primaryKey;size:36"`
	UserID               string `gorm:"size:128;not null;uniqueIndex"`
	Tone                 string `gorm:"size:128"`
	VoiceCharacteristics string `gorm:"type:text"`
	PreferredLanguage    string `gorm:"size:64"`
	TargetAudience       string `gorm:"type:text"`
	Industry             string `gorm:"size:64"`
	KeyMessages          string `gorm:"type:text"`
	ProhibitedTerms      string `gorm:"type:text"`
	SampleTexts          string `gorm:"type:text"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (BrandVoiceRecord) TableName() string { return "brand_voices" }

// CalendarEntryRecord is the row behind domain.CalendarEntry.
type CalendarEntryRecord struct {
	ID                string    `gorm:"primaryKey;size:36"`
	UserID            string    `gorm:"size:128;not null;index"`
	PostID            string    `gorm:"size:36;not null;index"`
	ScheduledAt       time.Time `gorm:"not null;index"`
	Timezone          string    `gorm:"size:64"`
	Recurring         bool      `gorm:"not null;default:false"`
	RecurrencePattern string    `gorm:"size:128"`
	Status            string    `gorm:"size:16;not null;index"`
	CreatedAt         time.Time
}

func (CalendarEntryRecord) TableName() string { return "calendar_entries" }

// Migrate creates or updates every table the store needs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&TagRecord{},
		&ContentRecord{},
		&ContentTagRecord{},
		&PostRecord{},
		&MetricsRecord{},
		&BrandVoiceRecord{},
		&CalendarEntryRecord{},
	)
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toContentRecord(c *domain.Content) ContentRecord {
	return ContentRecord{
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
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
	}
}

func (r ContentRecord) toDomain() domain.Content {
	c := domain.Content{
		ID:             parseID(r.ID),
		UserID:         r.UserID,
		Title:          r.Title,
		OriginalText:   r.OriginalText,
		ProcessedText:  r.ProcessedText,
		Summary:        r.Summary,
		KeyPoints:      r.KeyPoints,
		Tone:           r.Tone,
		Industry:       r.Industry,
		SourceKind:     domain.SourceKind(r.SourceKind),
		SourceURL:      r.SourceURL,
		SourceFilename: r.SourceFilename,
		ArchiveKey:     r.ArchiveKey,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Posts:          []domain.Post{},
	}
	for _, t := range r.Tags {
		c.Tags = append(c.Tags, t.Name)
	}
	for _, p := range r.Posts {
		c.Posts = append(c.Posts, p.toDomain())
	}
	return c
}

func toPostRecord(p *domain.Post) PostRecord {
	return PostRecord{
		ID:              p.ID.String(),
		ContentID:       p.ContentID.String(),
		Platform:        p.Platform,
		Text:            p.Text,
		Hashtags:        p.Hashtags,
		CharCount:       p.CharCount,
		ImageSuggestion: p.ImageSuggestion,
		CallToAction:    p.CallToAction,
		ScheduledAt:     utcPtr(p.ScheduledAt),
		Posted:          p.Posted,
		PostedAt:        utcPtr(p.PostedAt),
		PostURL:         p.PostURL,
		CreatedAt:       p.CreatedAt.UTC(),
	}
}

func (r PostRecord) toDomain() domain.Post {
	p := domain.Post{
		ID:              parseID(r.ID),
		ContentID:       parseID(r.ContentID),
		Platform:        r.Platform,
		Text:            r.Text,
		Hashtags:        r.Hashtags,
		CharCount:       r.CharCount,
		ImageSuggestion: r.ImageSuggestion,
		CallToAction:    r.CallToAction,
		ScheduledAt:     r.ScheduledAt,
		Posted:          r.Posted,
		PostedAt:        r.PostedAt,
		PostURL:         r.PostURL,
		CreatedAt:       r.CreatedAt,
	}
	if r.Metrics != nil {
		m := r.Metrics.toDomain()
		p.Metrics = &m
	}
	return p
}

func toMetricsRecord(m *domain.Metrics) MetricsRecord {
	return MetricsRecord{
		PostID:         m.PostID.String(),
		Views:          m.Views,
		Likes:          m.Likes,
		Shares:         m.Shares,
		Comments:       m.Comments,
		Clicks:         m.Clicks,
		EngagementRate: m.EngagementRate,
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func (r MetricsRecord) toDomain() domain.Metrics {
	return domain.Metrics{
		PostID:         parseID(r.PostID),
		Views:          r.Views,
		Likes:          r.Likes,
		Shares:         r.Shares,
		Comments:       r.Comments,
		Clicks:         r.Clicks,
		EngagementRate: r.EngagementRate,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toBrandVoiceRecord(b *domain.BrandVoice) BrandVoiceRecord {
	return BrandVoiceRecord{
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
		CreatedAt:            b.CreatedAt.UTC(),
		UpdatedAt:            b.UpdatedAt.UTC(),
	}
}

func (r BrandVoiceRecord) toDomain() domain.BrandVoice {
	return domain.BrandVoice{
		ID:                   parseID(r.ID),
		UserID:               r.UserID,
		Tone:                 r.Tone,
		VoiceCharacteristics: r.VoiceCharacteristics,
		PreferredLanguage:    r.PreferredLanguage,
		TargetAudience:       r.TargetAudience,
		Industry:             r.Industry,
		KeyMessages:          r.KeyMessages,
		ProhibitedTerms:      r.ProhibitedTerms,
		SampleTexts:          r.SampleTexts,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func toCalendarRecord(e *domain.CalendarEntry) CalendarEntryRecord {
	return CalendarEntryRecord{
		ID:                e.ID.String(),
		UserID:            e.UserID,
		PostID:            e.PostID.String(),
		ScheduledAt:       e.ScheduledAt.UTC(),
		Timezone:          e.Timezone,
		Recurring:         e.Recurring,
		RecurrencePattern: e.RecurrencePattern,
		Status:            string(e.Status),
		CreatedAt:         e.CreatedAt.UTC(),
	}
}

func (r CalendarEntryRecord) toDomain() domain.CalendarEntry {
	return domain.CalendarEntry{
		ID:                parseID(r.ID),
		UserID:            r.UserID,
		PostID:            parseID(r.PostID),
		ScheduledAt:       r.ScheduledAt,
		Timezone:          r.Timezone,
		Recurring:         r.Recurring,
		RecurrencePattern: r.RecurrencePattern,
		Status:            domain.CalendarStatus(r.Status),
		CreatedAt:         r.CreatedAt,
	}
}
