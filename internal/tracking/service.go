package tracking

import (
	"context"
	"time"

	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/internal/interaction"
	"github.com/Wuchinator/artisan-market/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service records best-effort telemetry. Failures are logged and counted,
// never returned.
type Service struct {
	repo      Repository
	publisher interaction.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewService(repo Repository, publisher interaction.Publisher, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *Service) RecordContact(ctx context.Context, id *identity.Identity, artisanID uuid.UUID, contactType ContactType) {
	kind := contactKind(contactType)

	if !contactType.Valid() {
		s.logger.Warn("skipping contact event with unknown type",
			zap.String("artisan_id", artisanID.String()),
			zap.String("contact_type", string(contactType)),
		)
		s.metrics.InteractionsRecorded.WithLabelValues(kind, metrics.OutcomeSkipped).Inc()
		return
	}

	if id == nil {
		s.logger.Info("skipping contact event for anonymous visitor",
			zap.String("artisan_id", artisanID.String()),
			zap.String("contact_type", string(contactType)),
		)
		s.metrics.InteractionsRecorded.WithLabelValues(kind, metrics.OutcomeSkipped).Inc()
		return
	}

	event := NewContactEvent(id.UserID, artisanID, contactType)
	if err := s.repo.CreateContact(ctx, event); err != nil {
		s.logger.Error("failed to record contact event",
			zap.Error(err),
			zap.String("user_id", id.UserID.String()),
			zap.String("artisan_id", artisanID.String()),
			zap.String("contact_type", string(contactType)),
		)
		s.metrics.InteractionsRecorded.WithLabelValues(kind, metrics.OutcomeFailure).Inc()
		return
	}
	s.metrics.InteractionsRecorded.WithLabelValues(kind, metrics.OutcomeSuccess).Inc()

	in := interaction.New(interaction.Kind(kind), id.UserID, artisanID, event.CreatedAt)
	if err := s.publisher.SendMessage(ctx, in.Key(), in); err != nil {
		s.logger.Warn("failed to publish contact interaction",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
	}

	s.logger.Info("Contact event recorded",
		zap.String("event_id", event.ID.String()),
		zap.String("artisan_id", artisanID.String()),
		zap.String("contact_type", string(contactType)),
	)
}

// RecordModal stores one auth prompt event. The anonymous session id is always
// attached; the user id is attached to conversions once the visitor has
// signed in.
func (s *Service) RecordModal(ctx context.Context, sess *identity.Session, id *identity.Identity, in ModalInput) {
	kind := string(in.EventType)
	if !in.EventType.Valid() {
		kind = "modal_unknown"
	}
	if sess == nil {
		sess = identity.NewSession("")
	}

	event := &ModalEvent{
		ID:        uuid.New(),
		SessionID: sess.AnonymousID(),
		ArtisanID: in.ArtisanID,
		EventType: in.EventType,
		CreatedAt: time.Now().UTC(),
	}
	if in.TriggerAction != "" {
		trigger := in.TriggerAction
		event.TriggerAction = &trigger
	}
	if in.ConversionAction != "" {
		action := in.ConversionAction
		event.ConversionAction = &action
	}
	if in.EventType == ModalConverted && id != nil {
		userID := id.UserID
		event.UserID = &userID
	}

	if err := s.repo.CreateModal(ctx, event); err != nil {
		s.logger.Error("failed to record modal event",
			zap.Error(err),
			zap.String("event_type", kind),
			zap.String("session_id", event.SessionID),
		)
		s.metrics.InteractionsRecorded.WithLabelValues(kind, metrics.OutcomeFailure).Inc()
		return
	}

	s.metrics.InteractionsRecorded.WithLabelValues(kind, metrics.OutcomeSuccess).Inc()
	s.logger.Debug("Modal event recorded",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", kind),
	)
}

func (s *Service) ContactTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return s.repo.ContactTimestampsSince(ctx, since)
}

func (s *Service) CountContacts(ctx context.Context) (int64, error) {
	return s.repo.CountContacts(ctx)
}

func (s *Service) ModalCountsSince(ctx context.Context, since time.Time) (*ModalCounts, error) {
	return s.repo.ModalCountsSince(ctx, since)
}

func contactKind(c ContactType) string {
	switch c {
	case ContactWhatsApp:
		return string(interaction.KindContactWhatsApp)
	case ContactCall:
		return string(interaction.KindContactCall)
	default:
		return "contact_unknown"
	}
}
