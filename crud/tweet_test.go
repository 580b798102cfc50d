package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func TestTweetService_Create(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()
	user := registerUser(t, s, "user1")

	t.Run("Success", func(t *testing.T) {
		tweet := &domain.Tweet{UserID: user.ID, Description: "  hello world  "}
		require.NoError(t, s.Tweet.Create(ctx, tweet))
		assert.NotZero(t, tweet.ID)
		assert.Equal(t, "hello world", tweet.Description)
		require.NotNil(t, tweet.User)
		assert.Equal(t, "user1", tweet.User.Account)
		assert.Equal(t, user.ID, tweet.User.ID)
		assert.Zero(t, tweet.ReplyCount)
		assert.Zero(t, tweet.LikeCount)
		assert.False(t, tweet.IsLiked)
	})

	t.Run("MaxLength", func(t *testing.T) {
		tweet := &domain.Tweet{UserID: user.ID, Description: strings.Repeat("字", domain.DescriptionMaxLength)}
		require.NoError(t, s.Tweet.Create(ctx, tweet))
	})

	t.Run("TooLong", func(t *testing.T) {
		tweet := &domain.Tweet{UserID: user.ID, Description: strings.Repeat("a", domain.DescriptionMaxLength+1)}
		requireCode(t, errs.EINVALID, s.Tweet.Create(ctx, tweet))
	})

	t.Run("Blank", func(t *testing.T) {
		requireCode(t, errs.EINVALID, s.Tweet.Create(ctx, &domain.Tweet{UserID: user.ID, Description: " \n "}))
	})

	t.Run("NoOwner", func(t *testing.T) {
		requireCode(t, errs.EINVALID, s.Tweet.Create(ctx, &domain.Tweet{Description: "orphan"}))
	})

	assert.Equal(t, 2, count(t, s, &domain.Tweet{}, "user_id = ?", user.ID))
}

func TestTweetService_List(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")

	first := postTweet(t, s, user1, "first")
	second := postTweet(t, s, user2, "second")
	third := postTweet(t, s, user1, "third")

	postReply(t, s, user2, first, "nice")
	postReply(t, s, user1, first, "thanks")
	_, err := s.Like.Like(ctx, user2.ID, first.ID)
	require.NoError(t, err)
	_, err = s.Like.Like(ctx, user1.ID, first.ID)
	require.NoError(t, err)
	_, err = s.Like.Like(ctx, user1.ID, second.ID)
	require.NoError(t, err)

	tweets, err := s.Tweet.List(ctx, user2.ID)
	require.NoError(t, err)
	require.Len(t, tweets, 3)
	assert.Equal(t, third.ID, tweets[0].ID)
	assert.Equal(t, second.ID, tweets[1].ID)
	assert.Equal(t, first.ID, tweets[2].ID)

	assert.Equal(t, 2, tweets[2].ReplyCount)
	assert.Equal(t, 2, tweets[2].LikeCount)
	assert.True(t, tweets[2].IsLiked)
	assert.Equal(t, 1, tweets[1].LikeCount)
	assert.False(t, tweets[1].IsLiked)
	assert.Zero(t, tweets[0].LikeCount)

	for _, tweet := range tweets {
		require.NotNil(t, tweet.User)
		assert.Equal(t, tweet.UserID, tweet.User.ID)
		assert.Equal(t, count(t, s, &domain.Reply{}, "tweet_id = ?", tweet.ID), tweet.ReplyCount)
		assert.Equal(t, count(t, s, &domain.Like{}, "tweet_id = ?", tweet.ID), tweet.LikeCount)
	}
}

func TestTweetService_ByID(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	tweet := postTweet(t, s, user1, "hello")
	_, err := s.Like.Like(ctx, user2.ID, tweet.ID)
	require.NoError(t, err)

	found, err := s.Tweet.ByID(ctx, user2.ID, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Description)
	assert.Equal(t, 1, found.LikeCount)
	assert.True(t, found.IsLiked)

	found, err = s.Tweet.ByID(ctx, user1.ID, tweet.ID)
	require.NoError(t, err)
	assert.False(t, found.IsLiked)

	_, err = s.Tweet.ByID(ctx, user1.ID, 9999)
	requireCode(t, errs.ENOTFOUND, err)
}

func TestTweetService_ByUser(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	older := postTweet(t, s, user1, "older")
	postTweet(t, s, user2, "someone else")
	newer := postTweet(t, s, user1, "newer")

	tweets, err := s.Tweet.ByUser(ctx, user2.ID, user1.ID)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, newer.ID, tweets[0].ID)
	assert.Equal(t, older.ID, tweets[1].ID)

	_, err = s.Tweet.ByUser(ctx, user1.ID, 9999)
	requireCode(t, errs.ENOTFOUND, err)
}

func TestTweetService_LikedByUser(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	a := postTweet(t, s, user2, "a")
	b := postTweet(t, s, user2, "b")
	postTweet(t, s, user2, "c")

	_, err := s.Like.Like(ctx, user1.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Like.Like(ctx, user1.ID, a.ID)
	require.NoError(t, err)

	tweets, err := s.Tweet.LikedByUser(ctx, user2.ID, user1.ID)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, a.ID, tweets[0].ID)
	assert.Equal(t, b.ID, tweets[1].ID)
	assert.False(t, tweets[0].IsLiked)
	assert.Equal(t, 1, tweets[0].LikeCount)

	tweets, err = s.Tweet.LikedByUser(ctx, user1.ID, user1.ID)
	require.NoError(t, err)
	for _, tweet := range tweets {
		assert.True(t, tweet.IsLiked)
	}

	empty, err := s.Tweet.LikedByUser(ctx, user1.ID, user2.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTweetService_AdminList(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	quiet := postTweet(t, s, user1, "quiet")
	popular := postTweet(t, s, user1, "popular")
	_, err := s.Like.Like(ctx, user1.ID, popular.ID)
	require.NoError(t, err)
	_, err = s.Like.Like(ctx, user2.ID, popular.ID)
	require.NoError(t, err)

	tweets, err := s.Tweet.AdminList(ctx)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, popular.ID, tweets[0].ID)
	assert.Equal(t, 2, tweets[0].LikeCount)
	assert.Equal(t, quiet.ID, tweets[1].ID)
	assert.False(t, tweets[0].IsLiked)
}

func TestTweetService_Delete(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	doomed := postTweet(t, s, user1, "doomed")
	kept := postTweet(t, s, user1, "kept")
	postReply(t, s, user2, doomed, "bye")
	postReply(t, s, user2, kept, "stay")
	_, err := s.Like.Like(ctx, user2.ID, doomed.ID)
	require.NoError(t, err)
	_, err = s.Like.Like(ctx, user2.ID, kept.ID)
	require.NoError(t, err)

	deleted, err := s.Tweet.Delete(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, doomed.ID, deleted.ID)
	assert.Equal(t, "doomed", deleted.Description)

	_, err = s.Tweet.ByID(ctx, user1.ID, doomed.ID)
	requireCode(t, errs.ENOTFOUND, err)
	assert.Equal(t, 0, count(t, s, &domain.Reply{}, "tweet_id = ?", doomed.ID))
	assert.Equal(t, 0, count(t, s, &domain.Like{}, "tweet_id = ?", doomed.ID))
	assert.Equal(t, 1, count(t, s, &domain.Reply{}, "tweet_id = ?", kept.ID))
	assert.Equal(t, 1, count(t, s, &domain.Like{}, "tweet_id = ?", kept.ID))

	_, err = s.Tweet.Delete(ctx, doomed.ID)
	requireCode(t, errs.ENOTFOUND, err)
	_, err = s.Tweet.Delete(ctx, 0)
	requireCode(t, errs.EINVALID, err)
}
