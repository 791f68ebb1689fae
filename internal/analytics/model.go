package analytics

import (
	"time"

	"github.com/google/uuid"
)

// DailySummary counts one kind of interaction with one artisan on one UTC day.
type DailySummary struct {
	Date        time.Time `db:"date" json:"date"`
	ArtisanID   uuid.UUID `db:"artisan_id" json:"artisanId"`
	Kind        string    `db:"kind" json:"kind"`
	Total       int64     `db:"total" json:"total"`
	UniqueUsers int64     `db:"unique_users" json:"uniqueUsers"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func NewDailySummary(at time.Time, artisanID uuid.UUID, kind string) *DailySummary {
	return &DailySummary{
		Date:      Day(at),
		ArtisanID: artisanID,
		Kind:      kind,
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *DailySummary) IncrementTotal(count int64) {
	s.Total += count
	s.UpdatedAt = time.Now().UTC()
}

func (s *DailySummary) SetUniqueUsers(count int64) {
	s.UniqueUsers = count
	s.UpdatedAt = time.Now().UTC()
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

type ArtisanStats struct {
	ArtisanID uuid.UUID `db:"artisan_id" json:"artisanId"`
	Total     int64     `db:"total" json:"total"`
}
