package analytics

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewRepository(postgres.Wrap(sqlx.NewDb(sqlDB, "postgres"), zap.NewNop()), zap.NewNop()), mock
}

func TestRepository_UpsertSummaryAccumulates(t *testing.T) {
	repo, mock := newMockRepository(t)
	summary := NewDailySummary(time.Date(2026, 5, 10, 15, 4, 0, 0, time.UTC), uuid.New(), "favorite_added")
	summary.IncrementTotal(1)
	summary.SetUniqueUsers(1)

	mock.ExpectExec(regexp.QuoteMeta("total = artisan_interaction_daily.total + EXCLUDED.total")).
		WithArgs(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), summary.ArtisanID, "favorite_added", int64(1), int64(1), summary.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertSummary(context.Background(), summary))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertSummaryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO artisan_interaction_daily")).
		WillReturnError(errors.New("disk full"))

	err := repo.UpsertSummary(context.Background(), NewDailySummary(time.Now(), uuid.New(), "contact_call"))
	assert.ErrorContains(t, err, "failed to upsert summary")
}

func TestRepository_GetTopArtisans(t *testing.T) {
	repo, mock := newMockRepository(t)
	from := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	first, second := uuid.NewString(), uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta("AND kind = ANY($3)")).
		WithArgs(Day(from), Day(to), sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"artisan_id", "total"}).
			AddRow(first, 42).
			AddRow(second, 7))

	stats, err := repo.GetTopArtisans(context.Background(), from, to, []string{"contact_whatsapp", "contact_call"}, 5)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, first, stats[0].ArtisanID.String())
	assert.Equal(t, int64(42), stats[0].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetTopArtisansAllKinds(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3")).
		WithArgs(Day(now), Day(now), 10).
		WillReturnRows(sqlmock.NewRows([]string{"artisan_id", "total"}))

	stats, err := repo.GetTopArtisans(context.Background(), now, now, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestRepository_GetSummariesByKind(t *testing.T) {
	repo, mock := newMockRepository(t)
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE date >= $1 AND date <= $2 AND kind = $3 ORDER BY date")).
		WithArgs(day, day, "contact_call").
		WillReturnRows(sqlmock.NewRows([]string{"date", "artisan_id", "kind", "total", "unique_users", "updated_at"}).
			AddRow(day, uuid.NewString(), "contact_call", 3, 2, day))

	summaries, err := repo.GetSummariesByDateRange(context.Background(), day, day, "contact_call")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(3), summaries[0].Total)
}
