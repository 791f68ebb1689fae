package artisan

import (
	"context"
	"errors"
	"time"

	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/pkg/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache is the subset of *cache.Redis the service needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(repo Repository, c Cache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Artisan, error) {
	return s.repo.List(ctx, filter.normalized())
}

// Get reads through the profile cache. Cache failures degrade to a
// database read.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Artisan, error) {
	key := id.String()

	var cached Artisan
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("artisan cache read failed", zap.Error(err), zap.String("artisan_id", key))
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, a, s.cacheTTL); err != nil {
		s.logger.Warn("artisan cache write failed", zap.Error(err), zap.String("artisan_id", key))
	}

	return a, nil
}

// Register creates a pending profile owned by the caller.
func (s *Service) Register(ctx context.Context, id *identity.Identity, in RegisterInput) (*Artisan, error) {
	if id == nil {
		return nil, ErrUnauthorized
	}

	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a := NewArtisan(id.UserID, in)
	if err := s.repo.Create(ctx, a); err != nil {
		if !errors.Is(err, ErrAlreadyRegistered) {
			s.logger.Error("failed to register artisan", zap.Error(err), zap.String("user_id", id.UserID.String()))
		}
		return nil, err
	}

	s.logger.Info("Artisan registered",
		zap.String("artisan_id", a.ID.String()),
		zap.String("user_id", id.UserID.String()),
		zap.String("profession", a.Profession),
		zap.String("city", a.City),
	)

	return a, nil
}

// SetStatus moderates a profile and drops its cached copy.
func (s *Service) SetStatus(ctx context.Context, artisanID uuid.UUID, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, artisanID, status); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, artisanID.String()); err != nil {
		s.logger.Warn("artisan cache invalidation failed", zap.Error(err), zap.String("artisan_id", artisanID.String()))
	}

	s.logger.Info("Artisan status changed",
		zap.String("artisan_id", artisanID.String()),
		zap.String("status", string(status)),
	)

	return nil
}

func (s *Service) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return s.repo.CreatedSince(ctx, since)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
