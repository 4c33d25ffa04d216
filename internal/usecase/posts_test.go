package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/generator"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/storage"
	"github.com/spboyer/aspire-beast-social3/internal/logging"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
	"github.com/spboyer/aspire-beast-social3/internal/tester"
)

type firstPicker struct{}

func (firstPicker) Intn(int) int { return 0 }

// failingWriter delegates to a real writer except for the platforms listed in fail.
type failingWriter struct {
	next ports.PostWriter
	fail map[string]bool
}

func (f failingWriter) Write(ctx context.Context, req domain.DraftRequest) (domain.Draft, error) {
	if f.fail[req.Platform] {
		return domain.Draft{}, errors.New("model unavailable")
	}
	return f.next.Write(ctx, req)
}

func newTestPostService(t *testing.T, writer ports.PostWriter) (*PostService, *storage.GormStore) {
	t.Helper()
	store := tester.NewStore(t)
	gen := generator.New(firstPicker{}, nil)
	if writer == nil {
		writer = gen
	}
	return NewPostService(PostServiceDeps{
		Store:       store,
		Writer:      writer,
		Hashtags:    gen,
		Logger:      logging.Discard(),
		Timeout:     5 * time.Second,
		Concurrency: 2,
	}), store
}

func seedContent(t *testing.T, store ports.Store, userID, text string) *domain.Content {
	t.Helper()
	now := time.Now().UTC()
	c := &domain.Content{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         "seed",
		OriginalText:  text,
		ProcessedText: text,
		SourceKind:    domain.SourceText,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.CreateContent(context.Background(), c))
	return c
}

func TestGeneratePostsIsolatesPlatformFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	writer := failingWriter{
		next: generator.New(firstPicker{}, nil),
		fail: map[string]bool{domain.PlatformLinkedIn: true},
	}
	svc, _ := newTestPostService(t, writer)
	content := seedContent(t, svc.store, "u1", strings.Repeat("Innovation drives every modern business forward. ", 20))

	res, err := svc.GeneratePosts(ctx, content.ID, []string{"Twitter", "LinkedIn", "UnknownPlatform"}, "keep it short")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Requested)
	require.Len(t, res.Posts, 2)
	assert.Equal(t, domain.PlatformTwitter, res.Posts[0].Platform)
	assert.Equal(t, "UnknownPlatform", res.Posts[1].Platform)
	for _, p := range res.Posts {
		assert.LessOrEqual(t, p.CharCount, 280)
	}
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "LinkedIn", res.Failures[0].Platform)

	stored, err := svc.store.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Posts, 2)
}

func TestGeneratePostsRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newTestPostService(t, nil)
	content := seedContent(t, store, "u1", "Celebrate the launch of our platform with customers everywhere. Thanks, everyone!")

	res, err := svc.GeneratePosts(ctx, content.ID, []string{"instagram"}, "")
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	generated := res.Posts[0]

	assert.Equal(t, domain.PlatformInstagram, generated.Platform)
	assert.Equal(t, utf8.RuneCountInString(generated.Text), generated.CharCount)
	assert.Equal(t, "#Celebrate #launch #platform #customers #everywhere #InstaGood #Inspiration #PhotoOfTheDay", generated.Hashtags)

	stored, err := store.GetPost(ctx, generated.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.ID, stored.ID)
	assert.Equal(t, generated.ContentID, stored.ContentID)
	assert.Equal(t, generated.Platform, stored.Platform)
	assert.Equal(t, generated.Text, stored.Text)
	assert.Equal(t, generated.Hashtags, stored.Hashtags)
	assert.Equal(t, generated.CharCount, stored.CharCount)
	assert.Equal(t, generated.ImageSuggestion, stored.ImageSuggestion)
	assert.Equal(t, generated.CallToAction, stored.CallToAction)
	assert.True(t, generated.CreatedAt.Equal(stored.CreatedAt))
	assert.False(t, stored.Posted)
	assert.Nil(t, stored.ScheduledAt)
}

func TestGeneratePostsErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestPostService(t, nil)

	_, err := svc.GeneratePosts(ctx, uuid.New(), []string{"Twitter"}, "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.GeneratePosts(ctx, uuid.New(), nil, "")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestGeneratePostsUsesBrandTone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var seen []string
	writer := recordingWriter{next: generator.New(firstPicker{}, nil), tones: &seen}
	svc, store := newTestPostService(t, writer)
	require.NoError(t, store.SaveBrandVoice(ctx, &domain.BrandVoice{UserID: "u1", Tone: "Friendly and approachable"}))
	content := seedContent(t, store, "u1", "A short update for everyone following along.")

	_, err := svc.GeneratePosts(ctx, content.ID, []string{"Facebook"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Friendly and approachable"}, seen)
}

type recordingWriter struct {
	next  ports.PostWriter
	tones *[]string
}

func (r recordingWriter) Write(ctx context.Context, req domain.DraftRequest) (domain.Draft, error) {
	*r.tones = append(*r.tones, req.BrandTone)
	return r.next.Write(ctx, req)
}

func TestSchedulePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newTestPostService(t, nil)
	content := seedContent(t, store, "u1", "Schedule this announcement for tomorrow morning.")

	res, err := svc.GeneratePosts(ctx, content.ID, []string{"Twitter"}, "")
	require.NoError(t, err)
	post := res.Posts[0]

	at := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	ok, err := svc.SchedulePost(ctx, post.ID, at, "Europe/Paris")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ScheduledAt)
	assert.True(t, at.Equal(*stored.ScheduledAt))

	upcoming, err := svc.Upcoming(ctx, "u1", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, post.ID, upcoming[0].PostID)
	assert.Equal(t, "Europe/Paris", upcoming[0].Timezone)
	assert.Equal(t, domain.CalendarScheduled, upcoming[0].Status)

	ok, err = svc.SchedulePost(ctx, uuid.New(), at, "")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.SchedulePost(ctx, post.ID, at, "Nowhere/Special")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdatePostAndMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newTestPostService(t, nil)
	content := seedContent(t, store, "u1", "Edits happen after generation all the time.")

	res, err := svc.GeneratePosts(ctx, content.ID, []string{"TikTok"}, "")
	require.NoError(t, err)
	post := res.Posts[0]

	text := "Rewritten by hand ✍️"
	tags := "  #Hand   #Written "
	updated, err := svc.UpdatePost(ctx, post.ID, PostUpdate{Text: &text, Hashtags: &tags})
	require.NoError(t, err)
	assert.Equal(t, utf8.RuneCountInString(text), updated.CharCount)
	assert.Equal(t, "#Hand #Written", updated.Hashtags)

	tooLong := strings.Repeat("x", 151)
	_, err = svc.UpdatePost(ctx, post.ID, PostUpdate{Text: &tooLong})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	m, err := svc.RecordMetrics(ctx, post.ID, MetricsInput{Views: 200, Likes: 10, Comments: 5, Shares: 3, Clicks: 2})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, m.EngagementRate, 0.0001)

	_, err = svc.RecordMetrics(ctx, post.ID, MetricsInput{Views: -1})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.RecordMetrics(ctx, uuid.New(), MetricsInput{Views: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGenerateHashtags(t *testing.T) {
	t.Parallel()
	svc, _ := newTestPostService(t, nil)

	tags := svc.GenerateHashtags("Teams shipping faster, together!", domain.PlatformTwitter)
	assert.Equal(t, []string{"#Teams", "#shipping", "#faster", "#together", "#Trending", "#News"}, tags)
}
