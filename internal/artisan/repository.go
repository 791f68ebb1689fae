package artisan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, a *Artisan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Artisan, error)
	List(ctx context.Context, filter Filter) ([]*Artisan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	Count(ctx context.Context) (int64, error)
}

const artisanColumns = `id, user_id, full_name, profession, city, phone, whatsapp, bio, avatar_url, status, created_at`

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

func (r *repository) Create(ctx context.Context, a *Artisan) error {
	query := `
		INSERT INTO artisans (` + artisanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		a.ID,
		a.UserID,
		a.FullName,
		a.Profession,
		a.City,
		a.Phone,
		a.WhatsApp,
		a.Bio,
		a.AvatarURL,
		string(a.Status),
		a.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create artisan: %w", err)
	}

	r.logger.Debug("Artisan created",
		zap.String("artisan_id", a.ID.String()),
		zap.String("user_id", a.UserID.String()),
	)

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Artisan, error) {
	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE id = $1`

	var a Artisan
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtisanNotFound
		}
		return nil, fmt.Errorf("failed to get artisan: %w", err)
	}

	return &a, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Artisan, error) {
	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE status = $1`
	args := []any{string(filter.Status)}

	if filter.Profession != "" {
		args = append(args, filter.Profession)
		query += " AND profession = $" + strconv.Itoa(len(args))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += " AND city ILIKE $" + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	artisans := make([]*Artisan, 0)
	if err := r.db.SelectContext(ctx, &artisans, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list artisans: %w", err)
	}

	return artisans, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE artisans SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update artisan status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update artisan status: %w", err)
	}
	if rows == 0 {
		return ErrArtisanNotFound
	}

	return nil
}

func (r *repository) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	timestamps := make([]time.Time, 0)
	err := r.db.SelectContext(ctx, &timestamps, `SELECT created_at FROM artisans WHERE created_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get artisan timestamps: %w", err)
	}
	return timestamps, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM artisans`); err != nil {
		return 0, fmt.Errorf("failed to count artisans: %w", err)
	}
	return n, nil
}
