package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const defaultConcurrency = 4

// PostServiceDeps wires the collaborators of PostService.
type PostServiceDeps struct {
	Store    ports.Store
	Writer   ports.PostWriter
	Hashtags ports.HashtagGenerator
	Logger   *slog.Logger
	Timeout  time.Duration
	// Concurrency bounds how many platforms are generated at once.
	Concurrency int
}

// PostService generates, edits and schedules platform posts.
type PostService struct {
	store       ports.Store
	writer      ports.PostWriter
	hashtags    ports.HashtagGenerator
	logger      *slog.Logger
	timeout     time.Duration
	concurrency int
}

// PlatformFailure records why one platform produced no post.
type PlatformFailure struct {
	Platform string
	Err      error
}

// GenerationResult lists the posts created for a request, in the requested
// platform order, next to the platforms that failed.
type GenerationResult struct {
	Requested int
	Posts     []domain.Post
	Failures  []PlatformFailure
}

// PostUpdate carries a manual edit. Nil fields are left unchanged.
type PostUpdate struct {
	Text     *string
	Hashtags *string
}

// MetricsInput carries engagement counters reported for a post.
type MetricsInput struct {
	Views    int64
	Likes    int64
	Shares   int64
	Comments int64
	Clicks   int64
}

// NewPostService constructs the post use cases.
func NewPostService(deps PostServiceDeps) *PostService {
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &PostService{
		store:       deps.Store,
		writer:      deps.Writer,
		hashtags:    deps.Hashtags,
		logger:      deps.Logger,
		timeout:     deps.Timeout,
		concurrency: concurrency,
	}
}

// GeneratePosts drafts and stores one post per platform. A failing platform is
// logged and reported in Failures; it never aborts the others.
func (s *PostService) GeneratePosts(ctx context.Context, contentID uuid.UUID, platforms []string, instructions string) (GenerationResult, error) {
	if len(platforms) == 0 {
		return GenerationResult{}, fmt.Errorf("%w: at least one platform is required", domain.ErrValidation)
	}

	lookupCtx, cancel := withTimeout(ctx, s.timeout)
	content, err := s.store.GetContent(lookupCtx, contentID)
	cancel()
	if err != nil {
		return GenerationResult{}, err
	}

	brandTone := s.brandTone(ctx, content.UserID)
	body := content.ProcessedText
	if strings.TrimSpace(body) == "" {
		body = content.OriginalText
	}

	posts := make([]*domain.Post, len(platforms))
	errs := make([]error, len(platforms))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)
	for i, platform := range platforms {
		wg.Add(1)
		go func(i int, platform string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			posts[i], errs[i] = s.generateOne(ctx, content.ID, body, platform, instructions, brandTone)
		}(i, platform)
	}
	wg.Wait()

	result := GenerationResult{Requested: len(platforms), Posts: []domain.Post{}}
	for i, platform := range platforms {
		if errs[i] != nil {
			s.warn("post generation failed",
				"platform", platform,
				"content_id", content.ID,
				"error", errs[i])
			result.Failures = append(result.Failures, PlatformFailure{Platform: platform, Err: errs[i]})
			continue
		}
		result.Posts = append(result.Posts, *posts[i])
	}
	return result, nil
}

func (s *PostService) generateOne(ctx context.Context, contentID uuid.UUID, body, platform, instructions, brandTone string) (*domain.Post, error) {
	draft, err := s.writer.Write(ctx, domain.DraftRequest{
		Text:               body,
		Platform:           platform,
		CustomInstructions: instructions,
		BrandTone:          brandTone,
	})
	if err != nil {
		return nil, fmt.Errorf("write draft: %w", err)
	}

	post := &domain.Post{
		ID:              uuid.New(),
		ContentID:       contentID,
		Platform:        domain.CanonicalPlatform(platform),
		Text:            draft.Text,
		Hashtags:        strings.Join(draft.Hashtags, " "),
		CharCount:       utf8.RuneCountInString(draft.Text),
		ImageSuggestion: draft.ImageSuggestion,
		CallToAction:    draft.CallToAction,
		CreatedAt:       time.Now().UTC(),
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) brandTone(ctx context.Context, userID string) string {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	voice, err := s.store.GetBrandVoice(ctx, userID)
	switch {
	case err == nil:
		return voice.Tone
	case errors.Is(err, domain.ErrNotFound):
		return ""
	default:
		s.warn("brand voice lookup failed", "user_id", userID, "error", err)
		return ""
	}
}

// GenerateHashtags derives the hashtag list for text on platform without storing anything.
func (s *PostService) GenerateHashtags(text, platform string) []string {
	return s.hashtags.Hashtags(text, platform)
}

// SchedulePost records the intent to publish a post at the given time. The post's
// ScheduledAt and a new calendar entry are written in one transaction.
func (s *PostService) SchedulePost(ctx context.Context, postID uuid.UUID, at time.Time, timezone string) (bool, error) {
	if at.IsZero() {
		return false, fmt.Errorf("%w: scheduled time is required", domain.ErrValidation)
	}
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return false, fmt.Errorf("%w: unknown timezone %q", domain.ErrValidation, timezone)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.Transaction(ctx, func(tx ports.Store) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		content, err := tx.GetContent(ctx, post.ContentID)
		if err != nil {
			return err
		}

		scheduled := at.UTC()
		post.ScheduledAt = &scheduled
		if err := tx.UpdatePost(ctx, post); err != nil {
			return err
		}

		return tx.CreateCalendarEntry(ctx, &domain.CalendarEntry{
			ID:          uuid.New(),
			UserID:      content.UserID,
			PostID:      post.ID,
			ScheduledAt: scheduled,
			Timezone:    timezone,
			Status:      domain.CalendarScheduled,
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return false, err
	}

	s.debug("post scheduled", "post_id", postID, "at", at, "timezone", timezone)
	return true, nil
}

// UpdatePost applies a manual edit and recomputes the character count.
func (s *PostService) UpdatePost(ctx context.Context, postID uuid.UUID, upd PostUpdate) (*domain.Post, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if upd.Text != nil {
		text := strings.TrimSpace(*upd.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: post text cannot be empty", domain.ErrValidation)
		}
		limit := domain.ResolvePlatform(post.Platform).CharacterLimit
		if n := utf8.RuneCountInString(text); n > limit {
			return nil, fmt.Errorf("%w: %d characters exceeds the %s limit of %d",
				domain.ErrValidation, n, post.Platform, limit)
		}
		post.Text = text
		post.CharCount = utf8.RuneCountInString(text)
	}
	if upd.Hashtags != nil {
		post.Hashtags = strings.Join(strings.Fields(*upd.Hashtags), " ")
	}

	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// RecordMetrics stores the latest engagement counters of a post.
func (s *PostService) RecordMetrics(ctx context.Context, postID uuid.UUID, in MetricsInput) (*domain.Metrics, error) {
	if in.Views < 0 || in.Likes < 0 || in.Shares < 0 || in.Comments < 0 || in.Clicks < 0 {
		return nil, fmt.Errorf("%w: metrics cannot be negative", domain.ErrValidation)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	m := &domain.Metrics{
		PostID:    postID,
		Views:     in.Views,
		Likes:     in.Likes,
		Shares:    in.Shares,
		Comments:  in.Comments,
		Clicks:    in.Clicks,
		UpdatedAt: time.Now().UTC(),
	}
	m.ComputeEngagementRate()

	if err := s.store.UpsertMetrics(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Upcoming lists the user's scheduled entries due within the given window from now.
func (s *PostService) Upcoming(ctx context.Context, userID string, within time.Duration) ([]domain.CalendarEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if within <= 0 {
		return nil, fmt.Errorf("%w: window must be positive", domain.ErrValidation)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	return s.store.ListUpcoming(ctx, userID, now, now.Add(within))
}

// OwnerOf returns the user that owns the content a post was generated from.
func (s *PostService) OwnerOf(ctx context.Context, postID uuid.UUID) (string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return "", err
	}
	content, err := s.store.GetContent(ctx, post.ContentID)
	if err != nil {
		return "", err
	}
	return content.UserID, nil
}

func (s *PostService) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *PostService) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
