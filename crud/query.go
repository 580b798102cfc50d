package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// userColumns selects a user together with its derived counts. The single
// placeholder is the ID of the viewing user, used for is_following.
const userColumns = `users.*,
	(SELECT COUNT(*) FROM tweets WHERE tweets.user_id = users.id) AS tweet_count,
	(SELECT COUNT(*) FROM replies WHERE replies.user_id = users.id) AS reply_count,
	(SELECT COUNT(*) FROM likes WHERE likes.user_id = users.id) AS like_count,
	(SELECT COUNT(*) FROM followships WHERE followships.following_id = users.id) AS follower_count,
	(SELECT COUNT(*) FROM followships WHERE followships.follower_id = users.id) AS following_count,
	EXISTS (SELECT 1 FROM followships WHERE followships.follower_id = ? AND followships.following_id = users.id) AS is_following`

// tweetColumns selects a tweet together with its derived counts. The single
// placeholder is the ID of the viewing user, used for is_liked.
const tweetColumns = `tweets.*,
	(SELECT COUNT(*) FROM replies WHERE replies.tweet_id = tweets.id) AS reply_count,
	(SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id) AS like_count,
	EXISTS (SELECT 1 FROM likes WHERE likes.tweet_id = tweets.id AND likes.user_id = ?) AS is_liked`

// authorColumns are the user columns embedded in tweets and replies.
var authorColumns = []string{"id", "account", "name", "avatar"}

// preloadAuthor eager-loads the user behind the given association path,
// restricted to the public author columns.
func preloadAuthor(path string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(path, func(db *gorm.DB) *gorm.DB {
			return db.Select(authorColumns)
		})
	}
}

// userExists returns an ENOTFOUND error if there is no user with the given ID.
func userExists(ctx context.Context, db *gorm.DB, id int) error {
	var user domain.User
	err := db.WithContext(ctx).Select("id").Take(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "User does not exist.")
		}
		return err
	}
	return nil
}

// tweetExists returns an ENOTFOUND error if there is no tweet with the given ID.
func tweetExists(ctx context.Context, db *gorm.DB, id int) error {
	var tweet domain.Tweet
	err := db.WithContext(ctx).Select("id").Take(&tweet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Tweet does not exist.")
		}
		return err
	}
	return nil
}
