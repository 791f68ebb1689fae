package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Wuchinator/artisan-market/internal/artisan"
	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ArtisanLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*artisan.Artisan, error)
}

type Service struct {
	repo     Repository
	artisans ArtisanLookup
	logger   *zap.Logger
}

func NewService(repo Repository, artisans ArtisanLookup, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		artisans: artisans,
		logger:   logger,
	}
}

// Create stores the caller's review of an artisan. A buyer reviews each
// approved artisan at most once and never their own profile.
func (s *Service) Create(ctx context.Context, id *identity.Identity, artisanID uuid.UUID, rating int, comment string) (*Review, error) {
	if id == nil {
		return nil, ErrUnauthorized
	}

	review := NewReview(id.UserID, artisanID, rating, comment)
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkArtisan(ctx, id, artisanID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if !errors.Is(err, ErrDuplicateReview) && !errors.Is(err, ErrArtisanNotFound) {
			s.logger.Error("failed to create review",
				zap.Error(err),
				zap.String("user_id", id.UserID.String()),
				zap.String("artisan_id", artisanID.String()),
			)
		}
		return nil, err
	}

	s.logger.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("artisan_id", artisanID.String()),
		zap.Int("rating", rating),
	)

	return review, nil
}

func (s *Service) checkArtisan(ctx context.Context, id *identity.Identity, artisanID uuid.UUID) error {
	a, err := s.artisans.Get(ctx, artisanID)
	switch {
	case errors.Is(err, artisan.ErrArtisanNotFound):
		return ErrArtisanNotFound
	case err != nil:
		s.logger.Error("failed to look up reviewed artisan", zap.Error(err), zap.String("artisan_id", artisanID.String()))
		return fmt.Errorf("failed to look up artisan: %w", err)
	case !a.Visible():
		return ErrArtisanNotFound
	case a.UserID == id.UserID:
		return ErrSelfReview
	}
	return nil
}

func (s *Service) ListByArtisan(ctx context.Context, artisanID uuid.UUID) (*Summary, error) {
	reviews, err := s.repo.ListByArtisan(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	return Summarize(reviews), nil
}

func (s *Service) Delete(ctx context.Context, reviewID uuid.UUID) error {
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.logger.Info("Review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

func (s *Service) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return s.repo.CreatedSince(ctx, since)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
