package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/extractor"
)

// Extractor turns a raw source into a title and normalized body text.
type Extractor interface {
	Extract(ctx context.Context, src extractor.Source) (extractor.Result, error)
}

// Analyzer derives summary, key points, tone and industry from text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
}

// PostWriter produces a platform-specific draft from text.
type PostWriter interface {
	Write(ctx context.Context, req domain.DraftRequest) (domain.Draft, error)
}

// HashtagGenerator derives the hashtag list for a text on a platform.
type HashtagGenerator interface {
	Hashtags(text, platform string) []string
}

// Picker chooses an index in [0, n). Implementations decide how random the choice is.
type Picker interface {
	Intn(n int) int
}

// ListContentQuery filters a user's content listing.
type ListContentQuery struct {
	UserID string
	Kind   domain.SourceKind
	Limit  uint64
	Offset uint64
}

// ContentRepository persists contents and their tags.
type ContentRepository interface {
	CreateContent(ctx context.Context, content *domain.Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*domain.Content, error)
	ListContent(ctx context.Context, q ListContentQuery) ([]domain.Content, error)
	// DeleteContent removes the content and everything hanging off it.
	// It reports false when nothing matched id.
	DeleteContent(ctx context.Context, id uuid.UUID) (bool, error)
}

// PostRepository persists generated posts and their metrics.
type PostRepository interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	UpsertMetrics(ctx context.Context, metrics *domain.Metrics) error
}

// BrandVoiceRepository persists one brand voice per user.
type BrandVoiceRepository interface {
	GetBrandVoice(ctx context.Context, userID string) (*domain.BrandVoice, error)
	SaveBrandVoice(ctx context.Context, voice *domain.BrandVoice) error
}

// CalendarRepository records scheduling intents.
type CalendarRepository interface {
	CreateCalendarEntry(ctx context.Context, entry *domain.CalendarEntry) error
	ListUpcoming(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEntry, error)
}

// Store groups all repositories and allows running them in a transaction.
type Store interface {
	ContentRepository
	PostRepository
	BrandVoiceRepository
	CalendarRepository
	Transaction(ctx context.Context, f func(tx Store) error) error
}

// DocumentArchive keeps a copy of uploaded documents.
type DocumentArchive interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

// Notifier sends the upcoming-posts digest to a chat or similar channel.
// Entries arrive in schedule order; formatting is up to the channel.
type Notifier interface {
	PublishDigest(ctx context.Context, entries []domain.DigestEntry) error
}

// Scheduler controls when periodic jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
