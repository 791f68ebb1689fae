package favorite

import (
	"context"
	"fmt"

	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, f *Favorite) error
	Delete(ctx context.Context, userID, artisanID uuid.UUID) error
	Exists(ctx context.Context, userID, artisanID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error)
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

func (r *repository) Insert(ctx context.Context, f *Favorite) error {
	query := `
		INSERT INTO favorite_artisans (id, user_id, artisan_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, f.ID, f.UserID, f.ArtisanID, f.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			r.logger.Warn("Duplicate favorite rejected",
				zap.String("user_id", f.UserID.String()),
				zap.String("artisan_id", f.ArtisanID.String()),
			)
			return ErrAlreadyFavorite
		}
		if postgres.IsForeignKeyViolation(err) {
			return ErrArtisanNotFound
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, userID, artisanID uuid.UUID) error {
	query := `
		DELETE FROM favorite_artisans
		WHERE user_id = $1 AND artisan_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, userID, artisanID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		r.logger.Debug("No favorite to delete",
			zap.String("user_id", userID.String()),
			zap.String("artisan_id", artisanID.String()),
		)
	}

	return nil
}

func (r *repository) Exists(ctx context.Context, userID, artisanID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM favorite_artisans
			WHERE user_id = $1 AND artisan_id = $2
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, artisanID); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return exists, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error) {
	query := `
		SELECT id, user_id, artisan_id, created_at
		FROM favorite_artisans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	favorites := make([]*Favorite, 0)
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	return favorites, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM favorite_artisans`); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}
