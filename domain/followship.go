package domain

import (
	"context"
	"time"
)

// Followship represents a self-referential many-to-many relationship between two users.
// It is created when one user decides to follow another user.
// The FollowerID is the ID of the user that follows, and the FollowingID is the ID of the
// user that is being followed. There is at most one Followship per pair.
type Followship struct {
	ID          int `json:"id"`
	FollowerID  int `json:"follower_id" gorm:"notNull;uniqueIndex:idx_followships_pair"`
	FollowingID int `json:"following_id" gorm:"notNull;uniqueIndex:idx_followships_pair;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowshipService is a set of methods to manipulate and work with the Followship model.
type FollowshipService interface {
	Follow(ctx context.Context, followerID, followingID int) (*Followship, error)
	Unfollow(ctx context.Context, followerID, followingID int) error
}
