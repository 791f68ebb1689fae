package favorite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Wuchinator/artisan-market/internal/artisan"
	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/internal/interaction"
	"github.com/Wuchinator/artisan-market/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArtisanLookup resolves the profile a favorite points at.
type ArtisanLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*artisan.Artisan, error)
}

type Service struct {
	repo      Repository
	artisans  ArtisanLookup
	publisher interaction.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	artisans ArtisanLookup,
	publisher interaction.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		artisans:  artisans,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Toggle flips the favorite edge between the caller and an artisan.
// isCurrentlyFavorite is the state before the toggle: true removes the edge,
// false creates it. The returned error classifies a failed Result.
func (s *Service) Toggle(
	ctx context.Context,
	id *identity.Identity,
	artisanID uuid.UUID,
	isCurrentlyFavorite bool,
) (*Result, error) {
	if id == nil {
		return &Result{Success: false, IsFavorite: isCurrentlyFavorite, Error: ErrUnauthorized.Error()}, ErrUnauthorized
	}

	action, kind := "add", interaction.KindFavoriteAdded
	var err error
	if isCurrentlyFavorite {
		action, kind = "remove", interaction.KindFavoriteRemoved
		err = s.repo.Delete(ctx, id.UserID, artisanID)
	} else if err = s.checkArtisan(ctx, artisanID); err == nil {
		err = s.repo.Insert(ctx, NewFavorite(id.UserID, artisanID))
	}
	s.metrics.FavoriteToggles.WithLabelValues(action, metrics.Outcome(err)).Inc()

	if err != nil {
		s.logger.Error("failed to toggle favorite",
			zap.Error(err),
			zap.String("action", action),
			zap.String("user_id", id.UserID.String()),
			zap.String("artisan_id", artisanID.String()),
		)
		return &Result{Success: false, IsFavorite: isCurrentlyFavorite, Error: publicError(err)}, err
	}

	s.publish(ctx, interaction.New(kind, id.UserID, artisanID, time.Now()))

	s.logger.Info("Favorite toggled",
		zap.String("action", action),
		zap.String("user_id", id.UserID.String()),
		zap.String("artisan_id", artisanID.String()),
	)

	return &Result{Success: true, IsFavorite: !isCurrentlyFavorite}, nil
}

// checkArtisan only admits approved profiles; hidden ones read as missing.
func (s *Service) checkArtisan(ctx context.Context, artisanID uuid.UUID) error {
	a, err := s.artisans.Get(ctx, artisanID)
	switch {
	case errors.Is(err, artisan.ErrArtisanNotFound):
		return ErrArtisanNotFound
	case err != nil:
		return fmt.Errorf("failed to look up artisan: %w", err)
	case !a.Visible():
		return ErrArtisanNotFound
	}
	return nil
}

func publicError(err error) string {
	if errors.Is(err, ErrAlreadyFavorite) || errors.Is(err, ErrArtisanNotFound) {
		return err.Error()
	}
	return errToggleFailed.Error()
}

func (s *Service) publish(ctx context.Context, in *interaction.Interaction) {
	if err := s.publisher.SendMessage(ctx, in.Key(), in); err != nil {
		s.logger.Warn("failed to publish favorite interaction",
			zap.Error(err),
			zap.String("kind", string(in.Kind)),
			zap.String("artisan_id", in.ArtisanID.String()),
		)
	}
}

func (s *Service) IsFavorite(ctx context.Context, id *identity.Identity, artisanID uuid.UUID) (bool, error) {
	if id == nil {
		return false, ErrUnauthorized
	}
	return s.repo.Exists(ctx, id.UserID, artisanID)
}

func (s *Service) List(ctx context.Context, id *identity.Identity) ([]*Favorite, error) {
	if id == nil {
		return nil, ErrUnauthorized
	}

	favorites, err := s.repo.ListByUser(ctx, id.UserID)
	if err != nil {
		s.logger.Error("failed to list favorites", zap.Error(err), zap.String("user_id", id.UserID.String()))
		return nil, err
	}
	return favorites, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
