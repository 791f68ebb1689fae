package favorite

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is the (buyer, artisan) edge. At most one exists per pair.
type Favorite struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ArtisanID uuid.UUID `db:"artisan_id" json:"artisan_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func NewFavorite(userID, artisanID uuid.UUID) *Favorite {
	return &Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ArtisanID: artisanID,
		CreatedAt: time.Now().UTC(),
	}
}

// Result is what the toggle reports back. On failure IsFavorite keeps the
// state from before the toggle so the caller can roll back.
type Result struct {
	Success    bool   `json:"success"`
	IsFavorite bool   `json:"isFavorite"`
	Error      string `json:"error,omitempty"`
}
