package crud

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(ctx context.Context, tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.userIdValid,
		tv.descriptionMinLength,
		tv.descriptionMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.create(ctx, tweet)
}

// Delete runs validations needed for deleting existing Tweet database records.
func (tv *tweetValidator) Delete(ctx context.Context, id int) (*domain.Tweet, error) {
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Tweet ID is invalid.")
	}
	return tv.tweetGorm.Delete(ctx, id)
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet object and returns an error.
type tweetValFn = func(tweet *domain.Tweet) error

// descriptionMinLength makes sure that the Tweet's description is not blank.
func (tv *tweetValidator) descriptionMinLength(tweet *domain.Tweet) error {
	tweet.Description = strings.TrimSpace(tweet.Description)
	if tweet.Description == "" {
		return errs.Errorf(errs.EINVALID, "Tweet description must not be empty.")
	}
	return nil
}

// descriptionMaxLength makes sure that the Tweet's description does not exceed the maximum length.
func (tv *tweetValidator) descriptionMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Description) > domain.DescriptionMaxLength {
		return errs.Errorf(errs.EINVALID, "Tweet description max length is %d characters.", domain.DescriptionMaxLength)
	}
	return nil
}

// userIdValid ensures that the tweet has an owner.
func (tv *tweetValidator) userIdValid(tweet *domain.Tweet) error {
	if tweet.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// withCounts starts a tweet query that selects the reply and like counts,
// whether the viewer likes the tweet, and eager-loads the author.
func (tg *tweetGorm) withCounts(ctx context.Context, viewerID int) *gorm.DB {
	return tg.db.WithContext(ctx).
		Model(&domain.Tweet{}).
		Select(tweetColumns, viewerID).
		Scopes(preloadAuthor("User"))
}

// List retrieves all tweets, newest first.
func (tg *tweetGorm) List(ctx context.Context, viewerID int) ([]domain.Tweet, error) {
	tweets := []domain.Tweet{}
	err := tg.withCounts(ctx, viewerID).
		Order("tweets.created_at DESC").
		Order("tweets.id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}

// ByID retrieves a single Tweet by ID. If the record doesn't exist, it returns ENOTFOUND.
func (tg *tweetGorm) ByID(ctx context.Context, viewerID, id int) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := tg.withCounts(ctx, viewerID).
		Where("tweets.id = ?", id).
		Take(&tweet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Tweet does not exist.")
		}
		return nil, err
	}
	return &tweet, nil
}

// ByUser retrieves all tweets of a user, newest first.
func (tg *tweetGorm) ByUser(ctx context.Context, viewerID, userID int) ([]domain.Tweet, error) {
	if err := userExists(ctx, tg.db, userID); err != nil {
		return nil, err
	}
	tweets := []domain.Tweet{}
	err := tg.withCounts(ctx, viewerID).
		Where("tweets.user_id = ?", userID).
		Order("tweets.created_at DESC").
		Order("tweets.id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}

// LikedByUser retrieves all tweets a user likes, most recently liked first.
func (tg *tweetGorm) LikedByUser(ctx context.Context, viewerID, userID int) ([]domain.Tweet, error) {
	if err := userExists(ctx, tg.db, userID); err != nil {
		return nil, err
	}
	tweets := []domain.Tweet{}
	err := tg.withCounts(ctx, viewerID).
		Joins("JOIN likes AS user_likes ON user_likes.tweet_id = tweets.id").
		Where("user_likes.user_id = ?", userID).
		Order("user_likes.created_at DESC").
		Order("user_likes.id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}

// AdminList retrieves all tweets with their like counts, the most liked first.
func (tg *tweetGorm) AdminList(ctx context.Context) ([]domain.Tweet, error) {
	tweets := []domain.Tweet{}
	err := tg.withCounts(ctx, 0).
		Order("like_count DESC").
		Order("tweets.created_at").
		Order("tweets.id").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}

// create stores the data from the Tweet object in a new database record.
// On success, it reloads the tweet so that the response contains its author.
func (tg *tweetGorm) create(ctx context.Context, tweet *domain.Tweet) error {
	if err := tg.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return err
	}
	created, err := tg.ByID(ctx, tweet.UserID, tweet.ID)
	if err != nil {
		return err
	}
	*tweet = *created
	return nil
}

// Delete permanently deletes a Tweet record from the database, along with its
// Replies and Likes, and returns the deleted tweet.
func (tg *tweetGorm) Delete(ctx context.Context, id int) (*domain.Tweet, error) {
	tweet, err := tg.ByID(ctx, 0, id)
	if err != nil {
		return nil, err
	}
	err = tg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Select("Replies", "Likes").Delete(&domain.Tweet{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.ENOTFOUND, "Tweet has already been deleted.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tweet, nil
}
