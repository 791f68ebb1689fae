package tracking

import (
	"context"
	"net/http"

	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/pkg/respond"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service      *Service
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(service *Service, secureCookie bool, logger *zap.Logger) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type contactRequest struct {
	ContactType ContactType `json:"contactType"`
}

type modalRequest struct {
	EventType        ModalEventType   `json:"eventType"`
	ArtisanID        *uuid.UUID       `json:"artisanId,omitempty"`
	TriggerAction    string           `json:"triggerAction,omitempty"`
	ConversionAction ConversionAction `json:"conversionAction,omitempty"`
}

// RecordContact handles POST /artisans/{id}/contact. Once the request parses,
// the answer is 202 whether or not the write succeeded.
func (h *Handler) RecordContact(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	var req contactRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.service.RecordContact(ctx, identity.FromContext(ctx), artisanID, req.ContactType)

	respond.JSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// RecordModal handles POST /modal-events.
func (h *Handler) RecordModal(w http.ResponseWriter, r *http.Request) {
	var req modalRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.WithoutCancel(r.Context())
	sess := identity.SessionFromContext(ctx)

	h.service.RecordModal(ctx, sess, identity.FromContext(ctx), ModalInput{
		EventType:        req.EventType,
		ArtisanID:        req.ArtisanID,
		TriggerAction:    req.TriggerAction,
		ConversionAction: req.ConversionAction,
	})

	identity.PersistSession(w, sess, h.secureCookie)
	respond.JSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}
