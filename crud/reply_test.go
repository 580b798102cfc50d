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

func TestReplyService_Create(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	tweet := postTweet(t, s, user1, "hello")

	tests := []struct {
		name  string
		reply domain.Reply
		code  string
	}{
		{"Success", domain.Reply{UserID: user2.ID, TweetID: tweet.ID, Comment: "hi back"}, ""},
		{"Blank", domain.Reply{UserID: user2.ID, TweetID: tweet.ID, Comment: "   "}, errs.EINVALID},
		{"TooLong", domain.Reply{UserID: user2.ID, TweetID: tweet.ID, Comment: strings.Repeat("r", domain.DescriptionMaxLength+1)}, errs.EINVALID},
		{"MissingTweet", domain.Reply{UserID: user2.ID, TweetID: 9999, Comment: "anyone?"}, errs.ENOTFOUND},
		{"NoAuthor", domain.Reply{TweetID: tweet.ID, Comment: "ghost"}, errs.EINVALID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := tt.reply
			err := s.Reply.Create(ctx, &reply)
			if tt.code != "" {
				requireCode(t, tt.code, err)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, reply.ID)
			require.NotNil(t, reply.User)
			assert.Equal(t, "user2", reply.User.Account)
		})
	}

	found, err := s.Tweet.ByID(ctx, user1.ID, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.ReplyCount)
}

func TestReplyService_ByTweet(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	tweet := postTweet(t, s, user1, "hello")
	other := postTweet(t, s, user1, "other")
	r1 := postReply(t, s, user2, tweet, "one")
	r2 := postReply(t, s, user1, tweet, "two")
	postReply(t, s, user2, other, "elsewhere")

	replies, err := s.Reply.ByTweet(ctx, tweet.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, r1.ID, replies[0].ID)
	assert.Equal(t, r2.ID, replies[1].ID)
	require.NotNil(t, replies[0].User)
	assert.Equal(t, "user2", replies[0].User.Account)

	_, err = s.Reply.ByTweet(ctx, 9999)
	requireCode(t, errs.ENOTFOUND, err)
}

func TestReplyService_ByUser(t *testing.T) {
	s, _ := setupTestServices(t)
	ctx := context.Background()

	user1 := registerUser(t, s, "user1")
	user2 := registerUser(t, s, "user2")
	tweet := postTweet(t, s, user1, "hello")
	older := postReply(t, s, user2, tweet, "older")
	newer := postReply(t, s, user2, tweet, "newer")

	replies, err := s.Reply.ByUser(ctx, user2.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, newer.ID, replies[0].ID)
	assert.Equal(t, older.ID, replies[1].ID)
	require.NotNil(t, replies[0].Tweet)
	assert.Equal(t, "hello", replies[0].Tweet.Description)
	require.NotNil(t, replies[0].Tweet.User)
	assert.Equal(t, "user1", replies[0].Tweet.User.Account)

	none, err := s.Reply.ByUser(ctx, user1.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.Reply.ByUser(ctx, 9999)
	requireCode(t, errs.ENOTFOUND, err)
}
