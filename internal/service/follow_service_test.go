package service

import (
	"context"
	"testing"

	"snapshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existingUsers(ids ...uint) *userRepoStub {
	known := map[uint]bool{}
	for _, id := range ids {
		known[id] = true
	}
	return &userRepoStub{
		existsFn: func(_ context.Context, id uint) (bool, error) { return known[id], nil },
	}
}

func TestFollowService_SelfFollowAlwaysFails(t *testing.T) {
	subs := newSubRepoStub()
	svc := NewFollowService(subs, existingUsers(1))

	for i := 0; i < 3; i++ {
		_, err := svc.ToggleFollow(context.Background(), 1, 1)
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeValidation))
		assert.Equal(t, "You cannot follow yourself", err.Error())
	}
	assert.Empty(t, subs.edges)
}

func TestFollowService_MissingTarget(t *testing.T) {
	svc := NewFollowService(newSubRepoStub(), existingUsers(1))

	_, err := svc.ToggleFollow(context.Background(), 1, 2)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestFollowService_CountSymmetry(t *testing.T) {
	subs := newSubRepoStub()
	svc := NewFollowService(subs, existingUsers(1, 2, 3))
	ctx := context.Background()

	// C already follows B so counts start non-zero.
	_, err := svc.ToggleFollow(ctx, 3, 2)
	require.NoError(t, err)

	before, err := svc.Status(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, before.Followed)

	after, err := svc.ToggleFollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, after.Followed)
	assert.Equal(t, before.FollowerCount+1, after.FollowerCount)
	assert.Equal(t, before.FollowingCount+1, after.FollowingCount)

	status, err := svc.Status(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, after, status)

	reverse, err := svc.Status(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, reverse.Followed)

	undone, err := svc.ToggleFollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, undone.Followed)
	assert.Equal(t, before.FollowerCount, undone.FollowerCount)
	assert.Equal(t, before.FollowingCount, undone.FollowingCount)
}
