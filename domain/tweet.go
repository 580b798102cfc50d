package domain

import (
	"context"
	"time"
)

// DescriptionMaxLength is the maximum number of characters of a tweet or a reply.
const DescriptionMaxLength = 140

// Tweet represents a root post of a User. Its Replies and Likes are deleted along with it.
// ReplyCount, LikeCount and IsLiked are computed by the database on every read.
type Tweet struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id" gorm:"notNull;index"`
	User        *Author `json:"user,omitempty"`
	Description string  `json:"description" gorm:"type:text;notNull"`
	Replies     []Reply `json:"-"`
	Likes       []Like  `json:"-"`

	ReplyCount int  `json:"reply_count" gorm:"->;-:migration"`
	LikeCount  int  `json:"like_count" gorm:"->;-:migration"`
	IsLiked    bool `json:"is_liked" gorm:"->;-:migration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
// Methods taking a viewerID compute IsLiked from the viewer's perspective.
type TweetService interface {
	Create(ctx context.Context, tweet *Tweet) error
	List(ctx context.Context, viewerID int) ([]Tweet, error)
	ByID(ctx context.Context, viewerID, id int) (*Tweet, error)
	ByUser(ctx context.Context, viewerID, userID int) ([]Tweet, error)
	LikedByUser(ctx context.Context, viewerID, userID int) ([]Tweet, error)
	AdminList(ctx context.Context) ([]Tweet, error)
	Delete(ctx context.Context, id int) (*Tweet, error)
}
