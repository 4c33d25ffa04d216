package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const digestSnippetRunes = 80

// CalendarDigest periodically sends the posts due soon to a notifier. It only reads.
type CalendarDigest struct {
	driver   ports.Scheduler
	store    ports.Store
	notifier ports.Notifier
	window   time.Duration
	location *time.Location
	logger   *slog.Logger
}

// NewCalendarDigest returns a helper to start/stop the recurring digest job.
func NewCalendarDigest(driver ports.Scheduler, store ports.Store, notifier ports.Notifier, window time.Duration, loc *time.Location, log *slog.Logger) *CalendarDigest {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarDigest{
		driver:   driver,
		store:    store,
		notifier: notifier,
		window:   window,
		location: loc,
		logger:   log,
	}
}

// Start registers the digest with the provided scheduler.
func (d *CalendarDigest) Start(ctx context.Context) error {
	if d.driver == nil || d.notifier == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := d.RunOnce(ctx, trigger); err != nil && d.logger != nil {
			d.logger.Error("calendar digest failed", "error", err)
		}
	}

	return d.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (d *CalendarDigest) Stop(ctx context.Context) error {
	if d.driver == nil {
		return nil
	}

	return d.driver.Stop(ctx)
}

// RunOnce publishes the entries scheduled in [now, now+window). Nothing is sent when none are due.
func (d *CalendarDigest) RunOnce(ctx context.Context, now time.Time) error {
	if d.store == nil || d.notifier == nil {
		return nil
	}

	entries, err := d.store.ListUpcoming(ctx, "", now, now.Add(d.window))
	if err != nil {
		return fmt.Errorf("list upcoming: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	digest := make([]domain.DigestEntry, 0, len(entries))
	for _, entry := range entries {
		item := domain.DigestEntry{
			ScheduledAt: entry.ScheduledAt.In(d.location),
			Platform:    "unknown post",
			UserID:      entry.UserID,
		}
		post, err := d.store.GetPost(ctx, entry.PostID)
		if err == nil {
			item.Platform = post.Platform
			item.Snippet = snippetOf(post.Text)
		} else if d.logger != nil {
			d.logger.Warn("digest post lookup failed", "post_id", entry.PostID, "error", err)
		}
		digest = append(digest, item)
	}

	if err := d.notifier.PublishDigest(ctx, digest); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}

	if d.logger != nil {
		d.logger.Info("calendar digest sent", "entries", len(digest))
	}
	return nil
}

func snippetOf(text string) string {
	runes := []rune(text)
	if len(runes) <= digestSnippetRunes {
		return text
	}
	return string(runes[:digestSnippetRunes]) + "..."
}
