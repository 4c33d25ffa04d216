package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spboyer/aspire-beast-social3/internal/analysis"
	"github.com/spboyer/aspire-beast-social3/internal/domain"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const sampleSeparator = "\n\n"

// BrandVoiceService derives and stores the per-user brand voice.
type BrandVoiceService struct {
	store   ports.Store
	logger  *slog.Logger
	timeout time.Duration
}

// ProfileUpdate overwrites the curated brand voice fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	TargetAudience  *string
	KeyMessages     *string
	ProhibitedTerms *string
}

// NewBrandVoiceService constructs the brand voice use cases.
func NewBrandVoiceService(store ports.Store, log *slog.Logger, timeout time.Duration) *BrandVoiceService {
	return &BrandVoiceService{store: store, logger: log, timeout: timeout}
}

// Analyze derives the brand voice from the samples that are long enough and
// upserts it. Curated fields of an existing profile are kept.
func (s *BrandVoiceService) Analyze(ctx context.Context, userID string, samples []string) (*domain.BrandVoice, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	valid := analysis.ValidSamples(samples)
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: at least one sample of %d characters is required",
			domain.ErrValidation, analysis.MinSampleLength)
	}

	joined := strings.Join(valid, sampleSeparator)
	profile := analysis.DeriveBrandVoice(joined)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var saved *domain.BrandVoice
	err := s.store.Transaction(ctx, func(tx ports.Store) error {
		voice, err := tx.GetBrandVoice(ctx, userID)
		now := time.Now().UTC()
		switch {
		case errors.Is(err, domain.ErrNotFound):
			voice = &domain.BrandVoice{ID: uuid.New(), UserID: userID, CreatedAt: now}
		case err != nil:
			return err
		}

		voice.Apply(profile, joined)
		voice.UpdatedAt = now
		if err := tx.SaveBrandVoice(ctx, voice); err != nil {
			return err
		}
		saved = voice
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("brand voice analyzed",
			"user_id", userID,
			"samples", len(valid),
			"tone", saved.Tone)
	}
	return saved, nil
}

// Get returns the user's brand voice, or nil when none has been analyzed yet.
func (s *BrandVoiceService) Get(ctx context.Context, userID string) (*domain.BrandVoice, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	voice, err := s.store.GetBrandVoice(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return voice, nil
}

// UpdateProfile sets the curated fields of an existing brand voice.
func (s *BrandVoiceService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.BrandVoice, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var saved *domain.BrandVoice
	err := s.store.Transaction(ctx, func(tx ports.Store) error {
		voice, err := tx.GetBrandVoice(ctx, userID)
		if err != nil {
			return err
		}
		if upd.TargetAudience != nil {
			voice.TargetAudience = *upd.TargetAudience
		}
		if upd.KeyMessages != nil {
			voice.KeyMessages = *upd.KeyMessages
		}
		if upd.ProhibitedTerms != nil {
			voice.ProhibitedTerms = *upd.ProhibitedTerms
		}
		voice.UpdatedAt = time.Now().UTC()
		if err := tx.SaveBrandVoice(ctx, voice); err != nil {
			return err
		}
		saved = voice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
