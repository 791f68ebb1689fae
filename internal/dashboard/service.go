package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Wuchinator/artisan-market/internal/analytics"
	"github.com/Wuchinator/artisan-market/internal/interaction"
	"github.com/Wuchinator/artisan-market/internal/tracking"
	"github.com/Wuchinator/artisan-market/internal/trend"
	"go.uber.org/zap"
)

// CreationSource is satisfied by the artisan and review services.
type CreationSource interface {
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	Count(ctx context.Context) (int64, error)
}

type ContactSource interface {
	ContactTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error)
	CountContacts(ctx context.Context) (int64, error)
	ModalCountsSince(ctx context.Context, since time.Time) (*tracking.ModalCounts, error)
}

type FavoriteCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Ranking interface {
	TopArtisans(ctx context.Context, from, to time.Time, limit int, kinds ...interaction.Kind) ([]*analytics.ArtisanStats, error)
}

type Service struct {
	artisans  CreationSource
	reviews   CreationSource
	contacts  ContactSource
	favorites FavoriteCounter
	ranking   Ranking
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	artisans CreationSource,
	reviews CreationSource,
	contacts ContactSource,
	favorites FavoriteCounter,
	ranking Ranking,
	logger *zap.Logger,
) *Service {
	return &Service{
		artisans:  artisans,
		reviews:   reviews,
		contacts:  contacts,
		favorites: favorites,
		ranking:   ranking,
		now:       time.Now,
		logger:    logger,
	}
}

// Get assembles the admin dashboard. Nothing is cached; trends always
// reflect the rows present at call time.
func (s *Service) Get(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	current := trend.CurrentWindow(now)
	since := trend.PreviousWindow(now).From

	totals, err := s.totals(ctx)
	if err != nil {
		return nil, err
	}

	artisanTimes, err := s.artisans.CreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load artisan timestamps: %w", err)
	}
	reviewTimes, err := s.reviews.CreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load review timestamps: %w", err)
	}
	contactTimes, err := s.contacts.ContactTimestampsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact timestamps: %w", err)
	}

	modal, err := s.contacts.ModalCountsSince(ctx, current.From)
	if err != nil {
		return nil, fmt.Errorf("failed to load modal counts: %w", err)
	}

	top, err := s.ranking.TopArtisans(ctx, current.From, current.To, topContactedLimit,
		interaction.KindContactWhatsApp, interaction.KindContactCall)
	if err != nil {
		return nil, fmt.Errorf("failed to load top artisans: %w", err)
	}

	d := &Dashboard{
		Totals:       *totals,
		Trends:       trend.Dashboard(now, artisanTimes, reviewTimes, contactTimes),
		ModalFunnel:  NewModalFunnel(modal.Shown, modal.Converted, modal.Dismissed),
		TopContacted: top,
		GeneratedAt:  now,
	}

	s.logger.Debug("Dashboard assembled",
		zap.Int("artisans_window", len(artisanTimes)),
		zap.Int("reviews_window", len(reviewTimes)),
		zap.Int("contacts_window", len(contactTimes)),
	)

	return d, nil
}

func (s *Service) totals(ctx context.Context) (*Totals, error) {
	var (
		t   Totals
		err error
	)

	if t.Artisans, err = s.artisans.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count artisans: %w", err)
	}
	if t.Reviews, err = s.reviews.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	if t.Contacts, err = s.contacts.CountContacts(ctx); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	if t.Favorites, err = s.favorites.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	return &t, nil
}
