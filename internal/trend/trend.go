// Package trend turns pairs of period counts into signed percentage changes
// for the admin dashboard.
package trend

import (
	"math"
	"time"
)

// WindowLength is the span of one comparison period.
const WindowLength = 30 * 24 * time.Hour

type Metric string

const (
	MetricArtisans Metric = "artisans"
	MetricReviews  Metric = "reviews"
	MetricContacts Metric = "contacts"
)

// Result is the magnitude of a percentage change, rounded to an integer,
// plus its direction. A zero change is reported as positive.
type Result struct {
	Value      int  `json:"value"`
	IsPositive bool `json:"isPositive"`
}

type DashboardTrends struct {
	Artisans Result `json:"artisans"`
	Reviews  Result `json:"reviews"`
	Contacts Result `json:"contacts"`
}

func (d DashboardTrends) ByMetric() map[Metric]Result {
	return map[Metric]Result{
		MetricArtisans: d.Artisans,
		MetricReviews:  d.Reviews,
		MetricContacts: d.Contacts,
	}
}

// Calculate compares current against previous. Growth from a zero baseline
// is reported as a flat 100% when there is any activity and 0% otherwise.
func Calculate(current, previous int) Result {
	if previous == 0 {
		if current > 0 {
			return Result{Value: 100, IsPositive: true}
		}
		return Result{Value: 0, IsPositive: true}
	}

	percentChange := float64(current-previous) / float64(previous) * 100

	return Result{
		Value:      int(math.Round(math.Abs(percentChange))),
		IsPositive: percentChange >= 0,
	}
}

// Window is a half-open or closed time range depending on IncludeEnd.
type Window struct {
	From       time.Time
	To         time.Time
	IncludeEnd bool
}

func (w Window) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	if w.IncludeEnd {
		return !t.After(w.To)
	}
	return t.Before(w.To)
}

// CurrentWindow is [now-30d, now].
func CurrentWindow(now time.Time) Window {
	return Window{From: now.Add(-WindowLength), To: now, IncludeEnd: true}
}

// PreviousWindow is [now-60d, now-30d).
func PreviousWindow(now time.Time) Window {
	return Window{From: now.Add(-2 * WindowLength), To: now.Add(-WindowLength)}
}

func Count(timestamps []time.Time, w Window) int {
	n := 0
	for _, ts := range timestamps {
		if w.Contains(ts) {
			n++
		}
	}
	return n
}

// Compare counts timestamps in the current and previous windows relative to now.
func Compare(now time.Time, timestamps []time.Time) Result {
	return Calculate(
		Count(timestamps, CurrentWindow(now)),
		Count(timestamps, PreviousWindow(now)),
	)
}

// Dashboard computes the per-metric trends from raw creation timestamps.
// Records older than 60 days are ignored; nil collections count as empty.
func Dashboard(now time.Time, artisans, reviews, contacts []time.Time) DashboardTrends {
	return DashboardTrends{
		Artisans: Compare(now, artisans),
		Reviews:  Compare(now, reviews),
		Contacts: Compare(now, contacts),
	}
}
