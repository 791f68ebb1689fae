package review

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

type Review struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ArtisanID uuid.UUID `db:"artisan_id" json:"artisanId"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func NewReview(userID, artisanID uuid.UUID, rating int, comment string) *Review {
	return &Review{
		ID:        uuid.New(),
		ArtisanID: artisanID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}
}

func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// Summary is an artisan's reviews, newest first, with the mean rating
// rounded to one decimal.
type Summary struct {
	Reviews       []*Review `json:"reviews"`
	AverageRating float64   `json:"averageRating"`
	Count         int       `json:"count"`
}

func Summarize(reviews []*Review) *Summary {
	s := &Summary{Reviews: reviews, Count: len(reviews)}
	if len(reviews) == 0 {
		s.Reviews = make([]*Review, 0)
		return s
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	s.AverageRating = math.Round(float64(total)/float64(len(reviews))*10) / 10
	return s
}
