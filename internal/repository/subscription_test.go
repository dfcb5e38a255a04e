package repository

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"snapshare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_ToggleAndCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "")
	b := createUser(t, db, "")

	followed, err := repo.Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	exists, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	reverse, err := repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	followers, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	following, err := repo.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	followed, err = repo.Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, followed)

	followers, err = repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)
}

func TestSubscriptionRepository_SelfFollow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	a := createUser(t, db, "")

	for i := 0; i < 2; i++ {
		_, err := repo.Toggle(context.Background(), a.ID, a.ID)
		assert.True(t, models.HasCode(err, models.CodeValidation))
	}
}

func TestSubscriptionRepository_ConcurrentFollowers(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	target := createUser(t, db, "")
	const n = 10
	followers := make([]uint, n)
	for i := range followers {
		followers[i] = createUser(t, db, "").ID
	}

	var wg sync.WaitGroup
	for _, id := range followers {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := repo.Toggle(ctx, id, target.ID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	count, err := repo.CountFollowers(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestSubscriptionRepository_CountFollowersQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "subscriptions" WHERE following_id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountFollowers(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
