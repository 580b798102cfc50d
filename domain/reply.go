package domain

import (
	"context"
	"time"
)

// Reply represents a comment of a User attached to a Tweet.
type Reply struct {
	ID      int     `json:"id"`
	UserID  int     `json:"user_id" gorm:"notNull;index"`
	User    *Author `json:"user,omitempty"`
	TweetID int     `json:"tweet_id" gorm:"notNull;index"`
	Tweet   *Tweet  `json:"tweet,omitempty"`
	Comment string  `json:"comment" gorm:"type:text;notNull"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReplyService is a set of methods to manipulate and work with the Reply model.
type ReplyService interface {
	Create(ctx context.Context, reply *Reply) error
	ByTweet(ctx context.Context, tweetID int) ([]Reply, error)
	ByUser(ctx context.Context, userID int) ([]Reply, error)
}
