package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/testutil"
)

func usernames(ps []*model.Profile) []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Username
	}
	return res
}

func TestFollowUnfollow(t *testing.T) {
	store, _ := testutil.NewStore(t)
	svc := NewRelationshipService(store.Follows, store.Profiles)
	ctx := context.Background()
	alice := testutil.SeedProfile(t, store, "alice", nil)
	bob := testutil.SeedProfile(t, store, "bob", nil)
	carol := testutil.SeedProfile(t, store, "carol", nil)

	_, err := svc.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)
	_, err = svc.Follow(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	created, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)
	_, err = svc.Follow(ctx, carol.ID, bob.ID)
	require.NoError(t, err)

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	following, err := svc.ListFollowing(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(following))

	followers, err := svc.ListFollowers(ctx, bob.ID, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, usernames(followers))

	page2, err := svc.ListFollowers(ctx, bob.ID, 2, 1)
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	stats, err := svc.Stats(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Followers)
	assert.EqualValues(t, 0, stats.Following)
	_, err = svc.Stats(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	removed, err := svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	ok, err = svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNormalizePage(t *testing.T) {
	off, lim := normalizePage(0, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, 10, lim)

	off, lim = normalizePage(3, 500)
	assert.Equal(t, 200, off)
	assert.Equal(t, 100, lim)
}
