package domain

import (
	"context"
	"time"
)

// Like represents a many-to-many relationship between a User and a Tweet.
// A Like is created when a user decides to like a tweet. It's destroyed when
// a user decides to unlike a previously liked tweet, or when the tweet gets deleted.
// A user can like a tweet only once.
type Like struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet"`
	TweetID int    `json:"tweet_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet;index"`
	Tweet   *Tweet `json:"tweet,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	Like(ctx context.Context, userID, tweetID int) (*Like, error)
	Unlike(ctx context.Context, userID, tweetID int) error
}
