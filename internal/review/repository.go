package review

import (
	"context"
	"fmt"
	"time"

	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, review *Review) error
	ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]*Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	Count(ctx context.Context) (int64, error)
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

func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, artisan_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.ArtisanID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return ErrDuplicateReview
		case postgres.IsForeignKeyViolation(err):
			return ErrArtisanNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	r.logger.Debug("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("artisan_id", review.ArtisanID.String()),
		zap.Int("rating", review.Rating),
	)

	return nil
}

func (r *repository) ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]*Review, error) {
	query := `
		SELECT id, artisan_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE artisan_id = $1
		ORDER BY created_at DESC
	`

	reviews := make([]*Review, 0)
	if err := r.db.SelectContext(ctx, &reviews, query, artisanID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if rows == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *repository) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	timestamps := make([]time.Time, 0)
	err := r.db.SelectContext(ctx, &timestamps, `SELECT created_at FROM reviews WHERE created_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get review timestamps: %w", err)
	}
	return timestamps, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reviews`); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}
