package seed

import (
	"context"
	"testing"

	"snapshare/internal/config"
	"snapshare/internal/database"
	"snapshare/internal/models"
	"snapshare/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: ":memory:",
		DBSchemaMode: database.SchemaModeAuto,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func smallOptions() Options {
	return Options{
		NumUsers:           6,
		NumPosts:           15,
		MaxLikesPerPost:    4,
		MaxCommentsPerPost: 3,
		FollowsPerUser:     3,
		MaxDays:            10,
		SkipBcrypt:         true,
		RandomSeed:         42,
	}
}

func TestSeed_PopulatesGraph(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	summary, err := Seed(ctx, db, smallOptions())
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Users)
	assert.Equal(t, 15, summary.Posts)
	assert.EqualValues(t, summary.Users, count(t, db, &models.User{}))
	assert.EqualValues(t, summary.Posts, count(t, db, &models.Post{}))
	assert.EqualValues(t, summary.Likes, count(t, db, &models.Like{}))
	assert.EqualValues(t, summary.Comments, count(t, db, &models.Comment{}))
	assert.EqualValues(t, summary.Follows, count(t, db, &models.Subscription{}))

	var demo models.User
	require.NoError(t, db.Where("email = ?", "demo@example.com").First(&demo).Error)
	assert.Equal(t, "Demo User", demo.Name)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("follower_id = following_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	for _, c := range comments {
		var post models.Post
		require.NoError(t, db.First(&post, c.PostID).Error)
		assert.False(t, c.CreatedAt.Before(post.CreatedAt), "comment %d predates its post", c.ID)
	}
}

func TestSeed_FollowCountsMatchEdges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db, smallOptions())
	require.NoError(t, err)

	subs := repository.NewSubscriptionRepository(db)
	var users []models.User
	require.NoError(t, db.Find(&users).Error)

	var followers, following int64
	for _, u := range users {
		n, err := subs.CountFollowers(ctx, u.ID)
		require.NoError(t, err)
		followers += n
		n, err = subs.CountFollowing(ctx, u.ID)
		require.NoError(t, err)
		following += n
	}
	assert.Equal(t, followers, following)
	assert.Equal(t, count(t, db, &models.Subscription{}), followers)
}

func TestSeed_CleanReplacesData(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	opts := smallOptions()
	_, err := Seed(ctx, db, opts)
	require.NoError(t, err)

	opts.ShouldClean = true
	opts.RandomSeed = 7
	_, err = Seed(ctx, db, opts)
	require.NoError(t, err)

	assert.EqualValues(t, opts.NumUsers, count(t, db, &models.User{}))
	assert.EqualValues(t, opts.NumPosts, count(t, db, &models.Post{}))
}

func TestSeed_DryRunWritesNothing(t *testing.T) {
	db := newTestDB(t)
	opts := smallOptions()
	opts.DryRun = true

	summary, err := Seed(context.Background(), db, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.NumUsers, summary.Users)
	assert.Zero(t, count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.Post{}))
}

func TestClearAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db, smallOptions())
	require.NoError(t, err)

	require.NoError(t, ClearAll(ctx, db))
	for _, model := range []any{&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}, &models.Subscription{}} {
		assert.Zero(t, count(t, db, model))
	}
}

func TestFactory_CreateFollowSkipsSelfAndDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := NewFactory(db, Options{SkipBcrypt: true, RandomSeed: 1})

	a, err := f.CreateUser(ctx)
	require.NoError(t, err)
	b, err := f.CreateUser(ctx)
	require.NoError(t, err)

	created, err := f.CreateFollow(ctx, a, a)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.CreateFollow(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.CreateFollow(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 1, count(t, db, &models.Subscription{}))
}

func TestFactory_CreateLikeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := NewFactory(db, Options{SkipBcrypt: true, RandomSeed: 2})

	author, err := f.CreateUser(ctx)
	require.NoError(t, err)
	post, err := f.CreatePost(ctx, author)
	require.NoError(t, err)
	assert.True(t, post.HasContent())

	require.NoError(t, f.CreateLike(ctx, post, author))
	require.NoError(t, f.CreateLike(ctx, post, author))
	assert.EqualValues(t, 1, count(t, db, &models.Like{}))
}

func TestFactory_HashesDefaultPassword(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, Options{RandomSeed: 3})

	user, err := f.CreateUser(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, DefaultPassword, user.Password)
	assert.True(t, user.HasPassword())
}
