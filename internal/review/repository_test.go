package review

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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

func TestRepository_CreateMapsConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
		want error
	}{
		{"one review per buyer", "23505", ErrDuplicateReview},
		{"unknown artisan", "23503", ErrArtisanNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
				WillReturnError(&pq.Error{Code: tt.code})

			err := repo.Create(context.Background(), NewReview(uuid.New(), uuid.New(), 5, ""))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRepository_ListByArtisan(t *testing.T) {
	repo, mock := newMockRepository(t)
	artisanID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews")).
		WithArgs(artisanID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "artisan_id", "user_id", "rating", "comment", "created_at"}).
			AddRow(uuid.NewString(), artisanID.String(), uuid.NewString(), 5, "Great work", now).
			AddRow(uuid.NewString(), artisanID.String(), uuid.NewString(), 2, "", now.Add(-time.Hour)))

	reviews, err := repo.ListByArtisan(context.Background(), artisanID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Great work", reviews[0].Comment)
	assert.Equal(t, artisanID, reviews[1].ArtisanID)
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrReviewNotFound)
}

func TestRepository_Count(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)
}
