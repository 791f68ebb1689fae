package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		want     Result
	}{
		{"no activity", 0, 0, Result{Value: 0, IsPositive: true}},
		{"growth from zero", 5, 0, Result{Value: 100, IsPositive: true}},
		{"doubling", 10, 5, Result{Value: 100, IsPositive: true}},
		{"halving", 5, 10, Result{Value: 50, IsPositive: false}},
		{"drop to zero", 0, 4, Result{Value: 100, IsPositive: false}},
		{"rounds half up", 3, 2, Result{Value: 50, IsPositive: true}},
		{"rounds third", 4, 3, Result{Value: 33, IsPositive: true}},
		{"rounds two thirds down", 1, 3, Result{Value: 67, IsPositive: false}},
		{"large growth", 250, 10, Result{Value: 2400, IsPositive: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.current, tt.previous))
		})
	}
}

func TestCalculate_NoChangeIsPositive(t *testing.T) {
	for x := 1; x <= 50; x++ {
		assert.Equal(t, Result{Value: 0, IsPositive: true}, Calculate(x, x))
	}
}

func TestCalculate_DirectionProperty(t *testing.T) {
	for current := 0; current <= 30; current++ {
		for previous := 0; previous <= 30; previous++ {
			r := Calculate(current, previous)
			assert.GreaterOrEqual(t, r.Value, 0)

			wantNegative := current < previous && previous > 0
			assert.Equal(t, !wantNegative, r.IsPositive, "current=%d previous=%d", current, previous)
		}
	}
}

func TestDashboard_EmptyInputs(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	zero := Result{Value: 0, IsPositive: true}

	got := Dashboard(now, nil, []time.Time{}, nil)

	assert.Equal(t, DashboardTrends{Artisans: zero, Reviews: zero, Contacts: zero}, got)
}

func TestDashboard_WindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	contacts := []time.Time{
		now,                                // current, upper bound inclusive
		now.Add(-time.Hour),                // current
		now.Add(-30 * day),                 // current, lower bound inclusive
		now.Add(-30*day - time.Nanosecond), // previous
		now.Add(-45 * day),                 // previous
		now.Add(-60 * day),                 // previous, lower bound inclusive
		now.Add(-60*day - time.Nanosecond), // ignored
		now.Add(-90 * day),                 // ignored
		now.Add(time.Minute),               // ignored, in the future
	}

	assert.Equal(t, 3, Count(contacts, CurrentWindow(now)))
	assert.Equal(t, 3, Count(contacts, PreviousWindow(now)))

	got := Dashboard(now, nil, nil, contacts)
	assert.Equal(t, Result{Value: 0, IsPositive: true}, got.Contacts)
}

func TestDashboard_IndependentMetrics(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	artisans := []time.Time{now.Add(-1 * day), now.Add(-2 * day), now.Add(-40 * day)}
	reviews := []time.Time{now.Add(-35 * day), now.Add(-36 * day), now.Add(-5 * day), now.Add(-70 * day)}
	contacts := []time.Time{now.Add(-3 * day)}

	got := Dashboard(now, artisans, reviews, contacts)

	assert.Equal(t, Result{Value: 100, IsPositive: true}, got.Artisans)
	assert.Equal(t, Result{Value: 50, IsPositive: false}, got.Reviews)
	assert.Equal(t, Result{Value: 100, IsPositive: true}, got.Contacts)

	byMetric := got.ByMetric()
	assert.Len(t, byMetric, 3)
	assert.Equal(t, got.Reviews, byMetric[MetricReviews])
}
