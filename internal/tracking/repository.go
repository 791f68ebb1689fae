package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"go.uber.org/zap"
)

// Repository only appends; contact and modal events are never updated or deleted.
type Repository interface {
	CreateContact(ctx context.Context, event *ContactEvent) error
	CreateModal(ctx context.Context, event *ModalEvent) error
	ContactTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error)
	CountContacts(ctx context.Context) (int64, error)
	ModalCountsSince(ctx context.Context, since time.Time) (*ModalCounts, error)
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

func (r *repository) CreateContact(ctx context.Context, event *ContactEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO contact_events (id, user_id, artisan_id, contact_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.UserID,
		event.ArtisanID,
		string(event.ContactType),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact event: %w", err)
	}

	r.logger.Debug("Contact event created",
		zap.String("event_id", event.ID.String()),
		zap.String("artisan_id", event.ArtisanID.String()),
		zap.String("contact_type", string(event.ContactType)),
	)

	return nil
}

func (r *repository) CreateModal(ctx context.Context, event *ModalEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO auth_modal_events
			(id, session_id, user_id, artisan_id, event_type, trigger_action, conversion_action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var conversion *string
	if event.ConversionAction != nil {
		v := string(*event.ConversionAction)
		conversion = &v
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.SessionID,
		event.UserID,
		event.ArtisanID,
		string(event.EventType),
		event.TriggerAction,
		conversion,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create modal event: %w", err)
	}

	r.logger.Debug("Modal event created",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", string(event.EventType)),
		zap.String("session_id", event.SessionID),
	)

	return nil
}

func (r *repository) ContactTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	query := `
		SELECT created_at
		FROM contact_events
		WHERE created_at >= $1
	`

	timestamps := make([]time.Time, 0)
	if err := r.db.SelectContext(ctx, &timestamps, query, since); err != nil {
		return nil, fmt.Errorf("failed to get contact timestamps: %w", err)
	}

	return timestamps, nil
}

func (r *repository) CountContacts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contact_events`); err != nil {
		return 0, fmt.Errorf("failed to count contact events: %w", err)
	}
	return n, nil
}

func (r *repository) ModalCountsSince(ctx context.Context, since time.Time) (*ModalCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'modal_shown')     AS shown,
			COUNT(*) FILTER (WHERE event_type = 'modal_converted') AS converted,
			COUNT(*) FILTER (WHERE event_type = 'modal_dismissed') AS dismissed
		FROM auth_modal_events
		WHERE created_at >= $1
	`

	var counts ModalCounts
	if err := r.db.GetContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("failed to count modal events: %w", err)
	}

	return &counts, nil
}
