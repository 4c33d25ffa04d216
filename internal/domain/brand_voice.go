package domain

import (
	"time"

	"github.com/google/uuid"
)

// BrandVoice is the per-user tone profile. At most one exists per UserID.
type BrandVoice struct {
	ID                   uuid.UUID
	UserID               string
	Tone                 string
	VoiceCharacteristics string
	PreferredLanguage    string
	TargetAudience       string
	Industry             string
	KeyMessages          string
	ProhibitedTerms      string
	SampleTexts          string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// BrandVoiceProfile contains the fields derived from sample texts.
type BrandVoiceProfile struct {
	Tone                 string
	VoiceCharacteristics string
	PreferredLanguage    string
	Industry             string
}

// Apply overwrites the derived fields and keeps the curated ones.
func (b *BrandVoice) Apply(p BrandVoiceProfile, samples string) {
	b.Tone = p.Tone
	b.VoiceCharacteristics = p.VoiceCharacteristics
	b.PreferredLanguage = p.PreferredLanguage
	b.Industry = p.Industry
	b.SampleTexts = samples
}

// CalendarStatus enumerates the publishing states of a calendar entry.
type CalendarStatus string

const (
	CalendarScheduled CalendarStatus = "scheduled"
	CalendarPosted    CalendarStatus = "posted"
	CalendarFailed    CalendarStatus = "failed"
	CalendarCancelled CalendarStatus = "cancelled"
)

// CalendarEntry records the intent to publish a Post at a given time.
type CalendarEntry struct {
	ID                uuid.UUID
	UserID            string
	PostID            uuid.UUID
	ScheduledAt       time.Time
	Timezone          string
	Recurring         bool
	RecurrencePattern string
	Status            CalendarStatus
	CreatedAt         time.Time
}

// DigestEntry is one upcoming post as listed in a calendar digest.
type DigestEntry struct {
	ScheduledAt time.Time
	Platform    string
	UserID      string
	Snippet     string
}
