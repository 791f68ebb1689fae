package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Wuchinator/artisan-market/internal/interaction"
	"github.com/Wuchinator/artisan-market/pkg/kafka"
	"github.com/Wuchinator/artisan-market/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownKind = errors.New("unknown interaction kind")

type dailyKey struct {
	date      time.Time
	artisanID uuid.UUID
	kind      interaction.Kind
}

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	logger  *zap.Logger

	// buyers seen per day, artisan and kind since the process started
	mu          sync.Mutex
	uniqueUsers map[dailyKey]map[uuid.UUID]struct{}
}

func NewService(repo Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		metrics:     m,
		logger:      logger,
		uniqueUsers: make(map[dailyKey]map[uuid.UUID]struct{}),
	}
}

func (s *Service) ProcessInteraction(ctx context.Context, in *interaction.Interaction) error {
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}

	key := dailyKey{date: Day(in.CreatedAt), artisanID: in.ArtisanID, kind: in.Kind}

	summary := NewDailySummary(in.CreatedAt, in.ArtisanID, string(in.Kind))
	summary.IncrementTotal(1)
	summary.SetUniqueUsers(s.observeUser(key, in.UserID))

	if err := s.repo.UpsertSummary(ctx, summary); err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}

	s.logger.Debug("Interaction processed",
		zap.String("interaction_id", in.ID.String()),
		zap.String("kind", string(in.Kind)),
		zap.String("artisan_id", in.ArtisanID.String()),
		zap.String("date", summary.Date.Format(time.DateOnly)),
	)

	return nil
}

func (s *Service) observeUser(key dailyKey, userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, ok := s.uniqueUsers[key]
	if !ok {
		users = make(map[uuid.UUID]struct{})
		s.uniqueUsers[key] = users
	}
	users[userID] = struct{}{}
	return int64(len(users))
}

func (s *Service) GetSummaries(ctx context.Context, from, to time.Time, kind string) ([]*DailySummary, error) {
	return s.repo.GetSummariesByDateRange(ctx, from, to, kind)
}

// TopArtisans ranks artisans by interactions of the given kinds between
// from and to, both inclusive at day granularity. No kinds means all kinds.
func (s *Service) TopArtisans(
	ctx context.Context,
	from, to time.Time,
	limit int,
	kinds ...interaction.Kind,
) ([]*ArtisanStats, error) {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}

	stats, err := s.repo.GetTopArtisans(ctx, from, to, names, limit)
	if err != nil {
		s.logger.Error("Failed to get top artisans", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

// CreateMessageHandler decodes interaction records for the Kafka consumer.
func (s *Service) CreateMessageHandler() kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.Message) error {
		var in interaction.Interaction
		if err := json.Unmarshal(msg.Value, &in); err != nil {
			s.logger.Error("Failed to unmarshal interaction",
				zap.Error(err),
				zap.String("value", string(msg.Value)),
			)
			s.metrics.MessagesConsumed.WithLabelValues(metrics.OutcomeSkipped).Inc()
			return err
		}
		if in.CreatedAt.IsZero() {
			in.CreatedAt = msg.Timestamp
		}

		if err := s.ProcessInteraction(ctx, &in); err != nil {
			outcome := metrics.OutcomeFailure
			if errors.Is(err, ErrUnknownKind) {
				outcome = metrics.OutcomeSkipped
			}
			s.metrics.MessagesConsumed.WithLabelValues(outcome).Inc()
			return err
		}

		s.metrics.MessagesConsumed.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return nil
	}
}

// CleanupOldCache forgets buyers seen before yesterday.
func (s *Service) CleanupOldCache(now time.Time) {
	cutoff := Day(now).AddDate(0, 0, -1)

	s.mu.Lock()
	removed := 0
	for key := range s.uniqueUsers {
		if key.date.Before(cutoff) {
			delete(s.uniqueUsers, key)
			removed++
		}
	}
	s.mu.Unlock()

	s.logger.Debug("Cache cleanup completed", zap.Int("removed", removed))
}
