package bucketlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var itemColumnNames = []string{"id", "user_id", "type", "title", "destination", "description", "completed", "trip_id", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRepository(pool, slog.New(slog.NewTextHandler(io.Discard, nil))), pool
}

func TestRepository_GetItem(t *testing.T) {
	ctx := context.Background()
	userID, itemID, tripID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()
	desc := "Winter trip"

	t.Run("linked item", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery("SELECT (.+) FROM bucketlist_items WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(itemID, userID).
			WillReturnRows(pgxmock.NewRows(itemColumnNames).
				AddRow(itemID, userID, "experience", "Northern lights", "Tromsø", &desc, false, &tripID, now, now))

		item, err := repo.GetItem(ctx, userID, itemID)
		require.NoError(t, err)
		assert.Equal(t, types.BucketlistTypeExperience, item.Type)
		require.NotNil(t, item.TripID)
		assert.Equal(t, tripID, *item.TripID)
		require.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery("SELECT (.+) FROM bucketlist_items").WithArgs(itemID, userID).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetItem(ctx, userID, itemID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestRepository_LinkTrip(t *testing.T) {
	ctx := context.Background()
	userID, itemID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	t.Run("links an unlinked item", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		tripID := uuid.New()
		pool.ExpectQuery("UPDATE bucketlist_items").
			WithArgs(itemID, userID, tripID).
			WillReturnRows(pgxmock.NewRows([]string{"trip_id"}).AddRow(tripID))

		linked, err := repo.LinkTrip(ctx, userID, itemID, tripID)
		require.NoError(t, err)
		assert.Equal(t, tripID, linked)
	})

	t.Run("already linked returns the existing trip", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		mine, existing := uuid.New(), uuid.New()
		pool.ExpectQuery("UPDATE bucketlist_items").
			WithArgs(itemID, userID, mine).
			WillReturnError(pgx.ErrNoRows)
		pool.ExpectQuery("SELECT (.+) FROM bucketlist_items").
			WithArgs(itemID, userID).
			WillReturnRows(pgxmock.NewRows(itemColumnNames).
				AddRow(itemID, userID, "destination", "t", "d", (*string)(nil), false, &existing, now, now))

		linked, err := repo.LinkTrip(ctx, userID, itemID, mine)
		require.NoError(t, err)
		assert.Equal(t, existing, linked)
		require.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestRepository_DeleteItem(t *testing.T) {
	repo, pool := newMockRepo(t)
	userID, itemID := uuid.New(), uuid.New()
	pool.ExpectExec("DELETE FROM bucketlist_items").
		WithArgs(itemID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteItem(context.Background(), userID, itemID)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}
