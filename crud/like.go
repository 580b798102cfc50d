package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Like runs validations needed for creating new Like database records.
func (lv *likeValidator) Like(ctx context.Context, userID, tweetID int) (*domain.Like, error) {
	like := &domain.Like{UserID: userID, TweetID: tweetID}
	err := runLikeValFns(ctx, like,
		lv.userIdValid,
		lv.likedTweetExists,
		lv.notAlreadyLiked)
	if err != nil {
		return nil, err
	}
	if err := lv.likeGorm.create(ctx, like); err != nil {
		return nil, err
	}
	return like, nil
}

// Unlike runs validations needed for deleting existing Like database records.
func (lv *likeValidator) Unlike(ctx context.Context, userID, tweetID int) error {
	like := &domain.Like{UserID: userID, TweetID: tweetID}
	err := runLikeValFns(ctx, like, lv.likeExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.delete(ctx, like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(ctx context.Context, like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(ctx context.Context, like *domain.Like) error

// likeExists makes sure that the Like record to be deleted actually exists.
// On success, the passed in Like carries the ID of the stored record.
func (lv *likeValidator) likeExists(ctx context.Context, like *domain.Like) error {
	err := lv.db.WithContext(ctx).Where("user_id = ? AND tweet_id = ?", like.UserID, like.TweetID).First(like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "You cannot unlike a tweet you have not liked.")
		}
		return err
	}
	return nil
}

// likedTweetExists makes sure that the tweet to be liked actually exists.
func (lv *likeValidator) likedTweetExists(ctx context.Context, like *domain.Like) error {
	return tweetExists(ctx, lv.db, like.TweetID)
}

// notAlreadyLiked makes sure that the user doesn't already like the tweet.
func (lv *likeValidator) notAlreadyLiked(ctx context.Context, like *domain.Like) error {
	var existing domain.Like
	err := lv.db.WithContext(ctx).Where("user_id = ? AND tweet_id = ?", like.UserID, like.TweetID).First(&existing).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already like that tweet.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(ctx context.Context, like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// create stores the data from the Like object in a new database record.
func (lg *likeGorm) create(ctx context.Context, like *domain.Like) error {
	err := lg.db.WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "You already like that tweet.")
	}
	return err
}

// delete permanently deletes the database record matching the data from the Like object.
func (lg *likeGorm) delete(ctx context.Context, like *domain.Like) error {
	return lg.db.WithContext(ctx).Delete(like).Error
}
