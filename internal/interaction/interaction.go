// Package interaction defines the messages published to the interaction
// stream after a buyer acts on an artisan profile.
package interaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindFavoriteAdded   Kind = "favorite_added"
	KindFavoriteRemoved Kind = "favorite_removed"
	KindContactWhatsApp Kind = "contact_whatsapp"
	KindContactCall     Kind = "contact_call"
)

func (k Kind) Valid() bool {
	switch k {
	case KindFavoriteAdded, KindFavoriteRemoved, KindContactWhatsApp, KindContactCall:
		return true
	}
	return false
}

type Interaction struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	UserID    uuid.UUID `json:"user_id"`
	ArtisanID uuid.UUID `json:"artisan_id"`
	CreatedAt time.Time `json:"created_at"`
}

func New(kind Kind, userID, artisanID uuid.UUID, at time.Time) *Interaction {
	return &Interaction{
		ID:        uuid.New(),
		Kind:      kind,
		UserID:    userID,
		ArtisanID: artisanID,
		CreatedAt: at.UTC(),
	}
}

// Key routes all interactions with one artisan to the same partition.
func (i *Interaction) Key() string {
	return i.ArtisanID.String()
}

type Publisher interface {
	SendMessage(ctx context.Context, key string, value any) error
}
