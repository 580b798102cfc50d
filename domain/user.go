package domain

import (
	"context"
	"time"
)

const (
	// RoleUser is the role of every registered account.
	RoleUser = "user"
	// RoleAdmin is the role of back-office accounts. Admins can list and delete
	// users and tweets, but cannot use the regular user routes.
	RoleAdmin = "admin"

	// NameMaxLength is the maximum number of characters of a user's name.
	NameMaxLength = 50
	// IntroductionMaxLength is the maximum number of characters of a user's introduction.
	IntroductionMaxLength = 160
)

// User represents a registered account. Account and Email are unique.
// The count fields and IsFollowing are never stored; they are computed by the
// database with scalar subqueries whenever a profile or user list is queried.
type User struct {
	ID           int    `json:"id"`
	Account      string `json:"account" gorm:"notNull;uniqueIndex"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"notNull;uniqueIndex"`
	Avatar       string `json:"avatar"`
	CoverImage   string `json:"cover_image"`
	Introduction string `json:"introduction" gorm:"type:text"`
	Role         string `json:"role" gorm:"notNull;default:user"`

	// Password and CheckPassword only carry user input and are cleared once
	// the password has been hashed into PasswordHash.
	Password      string `json:"password,omitempty" gorm:"-"`
	CheckPassword string `json:"check_password,omitempty" gorm:"-"`
	PasswordHash  string `json:"-" gorm:"column:password;notNull"`

	TweetCount     int  `json:"tweet_count" gorm:"->;-:migration"`
	ReplyCount     int  `json:"reply_count" gorm:"->;-:migration"`
	LikeCount      int  `json:"like_count" gorm:"->;-:migration"`
	FollowerCount  int  `json:"follower_count" gorm:"->;-:migration"`
	FollowingCount int  `json:"following_count" gorm:"->;-:migration"`
	IsFollowing    bool `json:"is_following" gorm:"->;-:migration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Author is the public view of a User embedded in tweets and replies.
// It carries no counts, so it never claims values that were not queried.
type Author struct {
	ID      int    `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
}

// TableName points the Author view at the users table.
func (Author) TableName() string {
	return "users"
}

// UserUpdate holds the fields of a profile update. Nil fields are left untouched.
type UserUpdate struct {
	Account       *string `json:"account"`
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Introduction  *string `json:"introduction"`
	Password      *string `json:"password"`
	CheckPassword *string `json:"check_password"`
	Avatar        *string `json:"avatar"`
	CoverImage    *string `json:"cover_image"`
}

// UserService is a set of methods to manipulate and work with the User model.
// Methods taking a viewerID compute IsFollowing from the viewer's perspective.
type UserService interface {
	Register(ctx context.Context, user *User) error
	Authenticate(ctx context.Context, account, password string) (*User, error)
	ByID(ctx context.Context, id int) (*User, error)
	Profile(ctx context.Context, viewerID, id int) (*User, error)
	Update(ctx context.Context, viewerID, id int, upd *UserUpdate) (*User, error)
	Followers(ctx context.Context, viewerID, id int) ([]User, error)
	Followings(ctx context.Context, viewerID, id int) ([]User, error)
	Top(ctx context.Context, viewerID, limit int) ([]User, error)
	AdminList(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id int) error
}
