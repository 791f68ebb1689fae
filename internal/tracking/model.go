package tracking

import (
	"time"

	"github.com/google/uuid"
)

type ContactType string

const (
	ContactWhatsApp ContactType = "whatsapp"
	ContactCall     ContactType = "call"
)

func (c ContactType) Valid() bool {
	return c == ContactWhatsApp || c == ContactCall
}

type ModalEventType string

const (
	ModalShown     ModalEventType = "modal_shown"
	ModalConverted ModalEventType = "modal_converted"
	ModalDismissed ModalEventType = "modal_dismissed"
)

func (m ModalEventType) Valid() bool {
	switch m {
	case ModalShown, ModalConverted, ModalDismissed:
		return true
	}
	return false
}

type ConversionAction string

const (
	ConversionLogin  ConversionAction = "login"
	ConversionSignup ConversionAction = "signup"
)

func (c ConversionAction) Valid() bool {
	return c == ConversionLogin || c == ConversionSignup
}

// ContactEvent is an append-only record of a buyer reaching out to an artisan.
type ContactEvent struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	UserID      uuid.UUID   `db:"user_id" json:"user_id"`
	ArtisanID   uuid.UUID   `db:"artisan_id" json:"artisan_id"`
	ContactType ContactType `db:"contact_type" json:"contact_type"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

func NewContactEvent(userID, artisanID uuid.UUID, contactType ContactType) *ContactEvent {
	return &ContactEvent{
		ID:          uuid.New(),
		UserID:      userID,
		ArtisanID:   artisanID,
		ContactType: contactType,
		CreatedAt:   time.Now().UTC(),
	}
}

func (e *ContactEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if e.ArtisanID == uuid.Nil {
		return ErrInvalidArtisanID
	}
	if !e.ContactType.Valid() {
		return ErrInvalidContactType
	}
	return nil
}

// ModalEvent is an append-only record of the auth prompt being shown,
// converted or dismissed.
type ModalEvent struct {
	ID               uuid.UUID         `db:"id" json:"id"`
	SessionID        string            `db:"session_id" json:"session_id"`
	UserID           *uuid.UUID        `db:"user_id" json:"user_id,omitempty"`
	ArtisanID        *uuid.UUID        `db:"artisan_id" json:"artisan_id,omitempty"`
	EventType        ModalEventType    `db:"event_type" json:"event_type"`
	TriggerAction    *string           `db:"trigger_action" json:"trigger_action,omitempty"`
	ConversionAction *ConversionAction `db:"conversion_action" json:"conversion_action,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}

func (e *ModalEvent) Validate() error {
	if e.SessionID == "" {
		return ErrInvalidSessionID
	}
	if !e.EventType.Valid() {
		return ErrInvalidEventType
	}
	if e.ConversionAction != nil && !e.ConversionAction.Valid() {
		return ErrInvalidConversionAction
	}
	return nil
}

// ModalInput is what the client reports about an auth prompt.
type ModalInput struct {
	EventType        ModalEventType
	ArtisanID        *uuid.UUID
	TriggerAction    string
	ConversionAction ConversionAction
}

// ModalCounts tallies auth prompt events by type.
type ModalCounts struct {
	Shown     int64 `db:"shown" json:"shown"`
	Converted int64 `db:"converted" json:"converted"`
	Dismissed int64 `db:"dismissed" json:"dismissed"`
}
