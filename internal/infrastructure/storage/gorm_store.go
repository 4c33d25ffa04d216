package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

// GormStore persists contents, posts, brand voices and calendar entries through gorm.
type GormStore struct {
	db *gorm.DB
}

var _ ports.Store = (*GormStore)(nil)

const slowQueryThreshold = 200 * time.Millisecond

// Open connects to postgres or sqlite depending on driver. gorm's own
// warnings and errors go to log; a nil log uses slog.Default.
func Open(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// NewGormLogger adapts log for gorm. Missing rows are an expected outcome
// and are not logged.
func NewGormLogger(log *slog.Logger) logger.Interface {
	if log == nil {
		log = slog.Default()
	}
	return logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// NewGormStore wires a gorm.DB implementation.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction runs f against a store bound to a single database transaction.
func (g *GormStore) Transaction(ctx context.Context, f func(tx ports.Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

// CreateContent inserts the content and links its tags, reusing existing tag rows by name.
func (g *GormStore) CreateContent(ctx context.Context, content *domain.Content) error {
	rec := toContentRecord(content)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		for _, name := range uniqueTags(content.Tags) {
			tag, err := ensureTag(tx, name)
			if err != nil {
				return err
			}
			link := ContentTagRecord{ContentID: rec.ID, TagID: tag.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("create content", err)
	}
	content.CreatedAt = rec.CreatedAt
	content.UpdatedAt = rec.UpdatedAt
	content.Tags = uniqueTags(content.Tags)
	if content.Posts == nil {
		content.Posts = []domain.Post{}
	}
	return nil
}

func ensureTag(tx *gorm.DB, name string) (TagRecord, error) {
	candidate := TagRecord{ID: uuid.NewString(), Name: name}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return TagRecord{}, err
	}

	var tag TagRecord
	if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
		return TagRecord{}, err
	}
	return tag, nil
}

func uniqueTags(tags []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen.Contains(t) {
			continue
		}
		seen.Add(t)
		out = append(out, t)
	}
	return out
}

// GetContent loads a content with its tags, posts and post metrics.
func (g *GormStore) GetContent(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	var rec ContentRecord
	err := g.db.WithContext(ctx).
		Preload("Tags").
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Posts.Metrics").
		First(&rec, "id = ?", id.String()).Error
	if err != nil {
		return nil, wrapErr("get content", err)
	}
	content := rec.toDomain()
	return &content, nil
}

// ListContent returns a user's contents newest first. Posts are not loaded.
func (g *GormStore) ListContent(ctx context.Context, q ports.ListContentQuery) ([]domain.Content, error) {
	query, args, err := listContentQuery(q).ToSql()
	if err != nil {
		return nil, wrapErr("build list content", err)
	}

	var rows []ContentRecord
	if err := g.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, wrapErr("list content", err)
	}
	if len(rows) == 0 {
		return []domain.Content{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	tags, err := g.tagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Content, 0, len(rows))
	for _, r := range rows {
		c := r.toDomain()
		c.Tags = tags[r.ID]
		out = append(out, c)
	}
	return out, nil
}

type contentTagName struct {
	ContentID string
	Name      string
}

func (g *GormStore) tagsFor(ctx context.Context, contentIDs []string) (map[string][]string, error) {
	query, args, err := sq.Select("content_tags.content_id", "tags.name").
		From("content_tags").
		Join("tags ON tags.id = content_tags.tag_id").
		Where(sq.Eq{"content_tags.content_id": contentIDs}).
		OrderBy("tags.name ASC").
		ToSql()
	if err != nil {
		return nil, wrapErr("build content tags", err)
	}

	var pairs []contentTagName
	if err := g.db.WithContext(ctx).Raw(query, args...).Scan(&pairs).Error; err != nil {
		return nil, wrapErr("content tags", err)
	}

	result := make(map[string][]string, len(contentIDs))
	for _, p := range pairs {
		result[p.ContentID] = append(result[p.ContentID], p.Name)
	}
	return result, nil
}

// DeleteContent removes calendar entries, metrics and posts of the content, its tag links and the content itself.
func (g *GormStore) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	key := id.String()
	deleted := false

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ContentRecord{}).Where("id = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}

		postIDs := tx.Model(&PostRecord{}).Select("id").Where("content_id = ?", key)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&CalendarEntryRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&MetricsRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", key).Delete(&PostRecord{}).Error; err != nil {
			return err
		}

		unlink, args, err := sq.Delete("content_tags").Where(sq.Eq{"content_id": key}).ToSql()
		if err != nil {
			return err
		}
		if err := tx.Exec(unlink, args...).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", key).Delete(&ContentRecord{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, wrapErr("delete content", err)
	}
	return deleted, nil
}

// CreatePost stores a generated post.
func (g *GormStore) CreatePost(ctx context.Context, post *domain.Post) error {
	rec := toPostRecord(post)
	if err := g.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return wrapErr("create post", err)
	}
	post.CreatedAt = rec.CreatedAt
	return nil
}

// GetPost loads a post with its metrics.
func (g *GormStore) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var rec PostRecord
	if err := g.db.WithContext(ctx).Preload("Metrics").First(&rec, "id = ?", id.String()).Error; err != nil {
		return nil, wrapErr("get post", err)
	}
	post := rec.toDomain()
	return &post, nil
}

// UpdatePost writes the mutable post columns.
func (g *GormStore) UpdatePost(ctx context.Context, post *domain.Post) error {
	rec := toPostRecord(post)
	res := g.db.WithContext(ctx).
		Model(&PostRecord{ID: rec.ID}).
		Select("text", "hashtags", "char_count", "scheduled_at", "posted", "posted_at", "post_url").
		Updates(&rec)
	if res.Error != nil {
		return wrapErr("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: post %s", domain.ErrNotFound, post.ID)
	}
	return nil
}

// UpsertMetrics replaces the metrics row of a post.
func (g *GormStore) UpsertMetrics(ctx context.Context, metrics *domain.Metrics) error {
	rec := toMetricsRecord(metrics)
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return wrapErr("upsert metrics", err)
	}
	metrics.UpdatedAt = rec.UpdatedAt
	return nil
}

// GetBrandVoice returns the user's brand voice or ErrNotFound.
func (g *GormStore) GetBrandVoice(ctx context.Context, userID string) (*domain.BrandVoice, error) {
	var rec BrandVoiceRecord
	if err := g.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error; err != nil {
		return nil, wrapErr("get brand voice", err)
	}
	voice := rec.toDomain()
	return &voice, nil
}

// SaveBrandVoice inserts or updates the single brand voice of voice.UserID.
func (g *GormStore) SaveBrandVoice(ctx context.Context, voice *domain.BrandVoice) error {
	if voice.ID == uuid.Nil {
		voice.ID = uuid.New()
	}
	rec := toBrandVoiceRecord(voice)

	db := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tone",
			"voice_characteristics",
			"preferred_language",
			"target_audience",
			"industry",
			"key_messages",
			"prohibited_terms",
			"sample_texts",
			"updated_at",
		}),
	})
	if err := db.Create(&rec).Error; err != nil {
		return wrapErr("save brand voice", err)
	}
	voice.CreatedAt = rec.CreatedAt
	voice.UpdatedAt = rec.UpdatedAt
	return nil
}

// CreateCalendarEntry stores a scheduling intent.
func (g *GormStore) CreateCalendarEntry(ctx context.Context, entry *domain.CalendarEntry) error {
	rec := toCalendarRecord(entry)
	if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return wrapErr("create calendar entry", err)
	}
	entry.CreatedAt = rec.CreatedAt
	return nil
}

// ListUpcoming returns scheduled entries in [from, to) ordered by time. An empty userID lists every user.
func (g *GormStore) ListUpcoming(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEntry, error) {
	query, args, err := upcomingQuery(userID, from, to).ToSql()
	if err != nil {
		return nil, wrapErr("build upcoming", err)
	}

	var rows []CalendarEntryRecord
	if err := g.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, wrapErr("list upcoming", err)
	}

	out := make([]domain.CalendarEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func listContentQuery(q ports.ListContentQuery) sq.SelectBuilder {
	b := sq.Select("*").
		From("contents").
		Where(sq.Eq{"user_id": q.UserID}).
		OrderBy("created_at DESC")
	if q.Kind != "" {
		b = b.Where(sq.Eq{"source_kind": string(q.Kind)})
	}
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	if q.Offset > 0 {
		b = b.Offset(q.Offset)
	}
	return b
}

func upcomingQuery(userID string, from, to time.Time) sq.SelectBuilder {
	b := sq.Select("*").
		From("calendar_entries").
		Where(sq.Eq{"status": string(domain.CalendarScheduled)}).
		Where(sq.GtOrEq{"scheduled_at": from.UTC()}).
		Where(sq.Lt{"scheduled_at": to.UTC()}).
		OrderBy("scheduled_at ASC")
	if userID != "" {
		b = b.Where(sq.Eq{"user_id": userID})
	}
	return b
}

func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPersistence):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
	}
}
