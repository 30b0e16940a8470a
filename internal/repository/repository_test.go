package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/testutil"
)

func TestLikeCreateDeleteMaintainsCount(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.SeedProfile(t, store, "alice", nil)
	post := testutil.SeedPost(t, store, alice, "hello", time.Now())

	inserted, err := store.Likes.Create(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	// 重复点赞不改计数
	inserted, err = store.Likes.Create(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikesCount)

	deleted, err := store.Likes.Delete(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Likes.Delete(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err = store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.LikesCount)
}

func TestLikeCreateMissingPost(t *testing.T) {
	store, _ := testutil.NewStore(t)
	alice := testutil.SeedProfile(t, store, "alice", nil)

	_, err := store.Likes.Create(context.Background(), "missing", alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := store.Likes.Exists(context.Background(), "missing", alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLikedPostIDs(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.SeedProfile(t, store, "alice", nil)
	bob := testutil.SeedProfile(t, store, "bob", nil)
	now := time.Now()
	p1 := testutil.SeedPost(t, store, alice, "one", now)
	p2 := testutil.SeedPost(t, store, alice, "two", now.Add(time.Second))
	p3 := testutil.SeedPost(t, store, alice, "three", now.Add(2*time.Second))

	_, err := store.Likes.Create(ctx, p1.ID, bob.ID)
	require.NoError(t, err)
	_, err = store.Likes.Create(ctx, p3.ID, bob.ID)
	require.NoError(t, err)
	_, err = store.Likes.Create(ctx, p2.ID, alice.ID)
	require.NoError(t, err)

	liked, err := store.Likes.LikedPostIDs(ctx, bob.ID, []string{p1.ID, p2.ID, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{p1.ID: true, p3.ID: true}, liked)

	liked, err = store.Likes.LikedPostIDs(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestCommentCreateIncrementsCount(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.SeedProfile(t, store, "alice", nil)
	post := testutil.SeedPost(t, store, alice, "hello", time.Now())

	require.NoError(t, store.Comments.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "first"}))
	require.NoError(t, store.Comments.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "second"}))

	got, err := store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.CommentsCount)

	comments, err := store.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.Username)

	err = store.Comments.Create(ctx, &model.Comment{PostID: "missing", AuthorID: alice.ID, Content: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListRecentOrderAndLimit(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	vip := testutil.SeedRank(t, store, "VIP", 500)
	alice := testutil.SeedProfile(t, store, "alice", vip)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		testutil.SeedPost(t, store, alice, testutil.Username("post", i), base.Add(time.Duration(i)*time.Minute))
	}

	posts, err := store.Posts.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post_004", posts[0].Content)
	assert.Equal(t, "post_002", posts[2].Content)
	require.NotNil(t, posts[0].Author)
	require.NotNil(t, posts[0].Author.Rank)
	assert.Equal(t, "VIP", posts[0].Author.Rank.Name)
}

func TestProfileDuplicateUsername(t *testing.T) {
	store, _ := testutil.NewStore(t)
	testutil.SeedProfile(t, store, "alice", nil)

	err := store.Profiles.Create(context.Background(), &model.Profile{ID: "other", UserID: "other", Username: "alice", DisplayName: "Alice 2"})
	require.Error(t, err)
}

func TestProfilePatches(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	rank := testutil.SeedRank(t, store, "Mod", 100)
	alice := testutil.SeedProfile(t, store, "alice", nil)

	require.NoError(t, store.Profiles.SetRank(ctx, alice.ID, &rank.ID))
	require.NoError(t, store.Profiles.SetVerified(ctx, alice.ID, true))
	until := time.Now().Add(time.Hour).UTC()
	require.NoError(t, store.Profiles.SetPremium(ctx, alice.ID, true, &until))

	got, err := store.Profiles.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rank)
	assert.Equal(t, "Mod", got.Rank.Name)
	assert.True(t, got.IsVerified)
	assert.True(t, got.IsPremium)
	require.NotNil(t, got.PremiumUntil)
	assert.WithinDuration(t, until, *got.PremiumUntil, time.Second)

	require.NoError(t, store.Profiles.SetRank(ctx, alice.ID, nil))
	require.NoError(t, store.Profiles.SetPremium(ctx, alice.ID, false, nil))
	got, err = store.Profiles.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RankID)
	assert.Nil(t, got.Rank)
	assert.False(t, got.IsPremium)
	assert.Nil(t, got.PremiumUntil)

	assert.ErrorIs(t, store.Profiles.SetVerified(ctx, "missing", true), repository.ErrNotFound)
	_, err = store.Profiles.GetByUserID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRanksOrderedByPriority(t *testing.T) {
	store, _ := testutil.NewStore(t)
	testutil.SeedRank(t, store, "Member", 10)
	testutil.SeedRank(t, store, "Owner", 1000)
	testutil.SeedRank(t, store, "VIP", 500)

	ranks, err := store.Ranks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ranks, 3)
	assert.Equal(t, []string{"Owner", "VIP", "Member"}, []string{ranks[0].Name, ranks[1].Name, ranks[2].Name})
}

func TestFollowIdempotentAndListing(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.SeedProfile(t, store, "alice", nil)
	bob := testutil.SeedProfile(t, store, "bob", nil)

	created, err := store.Follows.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = store.Follows.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	following, err := store.Follows.ListFollowing(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].FolloweeID)

	followers, err := store.Follows.ListFollowers(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].FollowerID)

	stats, err := store.Follows.Stats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.FollowStats{Followers: 1, Following: 0}, *stats)

	removed, err := store.Follows.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = store.Follows.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	exists, err := store.Follows.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetByIDsSkipsMissing(t *testing.T) {
	store, _ := testutil.NewStore(t)
	alice := testutil.SeedProfile(t, store, "alice", nil)

	got, err := store.Profiles.GetByIDs(context.Background(), []string{alice.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)

	got, err = store.Profiles.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
