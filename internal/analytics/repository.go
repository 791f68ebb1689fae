package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	UpsertSummary(ctx context.Context, summary *DailySummary) error
	GetSummariesByDateRange(ctx context.Context, from, to time.Time, kind string) ([]*DailySummary, error)
	GetTopArtisans(ctx context.Context, from, to time.Time, kinds []string, limit int) ([]*ArtisanStats, error)
}

type repository struct {
	db     *postgres.DB
	logger *zap.Logger
}

func NewRepository(db *postgres.DB, logger *zap.Logger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

func (r *repository) UpsertSummary(ctx context.Context, summary *DailySummary) error {
	query := `
		INSERT INTO artisan_interaction_daily (date, artisan_id, kind, total, unique_users, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date, artisan_id, kind)
		DO UPDATE SET
			total = artisan_interaction_daily.total + EXCLUDED.total,
			unique_users = GREATEST(artisan_interaction_daily.unique_users, EXCLUDED.unique_users),
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		summary.Date,
		summary.ArtisanID,
		summary.Kind,
		summary.Total,
		summary.UniqueUsers,
		summary.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert summary", zap.Error(err))
		return fmt.Errorf("failed to upsert summary: %w", err)
	}

	r.logger.Debug("Summary upserted",
		zap.String("date", summary.Date.Format(time.DateOnly)),
		zap.String("artisan_id", summary.ArtisanID.String()),
		zap.String("kind", summary.Kind),
		zap.Int64("total", summary.Total),
	)

	return nil
}

func (r *repository) GetSummariesByDateRange(
	ctx context.Context,
	from, to time.Time,
	kind string,
) ([]*DailySummary, error) {
	query := `
		SELECT date, artisan_id, kind, total, unique_users, updated_at
		FROM artisan_interaction_daily
		WHERE date >= $1 AND date <= $2
	`
	args := []any{Day(from), Day(to)}

	if kind != "" {
		args = append(args, kind)
		query += " AND kind = $" + strconv.Itoa(len(args))
	}

	query += " ORDER BY date, artisan_id, kind"

	summaries := make([]*DailySummary, 0)
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get summaries: %w", err)
	}

	return summaries, nil
}

func (r *repository) GetTopArtisans(
	ctx context.Context,
	from, to time.Time,
	kinds []string,
	limit int,
) ([]*ArtisanStats, error) {
	query := `
		SELECT artisan_id, SUM(total) AS total
		FROM artisan_interaction_daily
		WHERE date >= $1 AND date <= $2
	`
	args := []any{Day(from), Day(to)}

	if len(kinds) > 0 {
		args = append(args, pq.Array(kinds))
		query += " AND kind = ANY($" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, limit)
	query += `
		GROUP BY artisan_id
		ORDER BY total DESC, artisan_id
		LIMIT $` + strconv.Itoa(len(args))

	stats := make([]*ArtisanStats, 0)
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get top artisans: %w", err)
	}

	return stats, nil
}
