package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// ReplyService manages Replies.
// It implements the domain.ReplyService interface.
type ReplyService struct {
	replyValidator
}

// replyValidator runs validations on incoming Reply data.
// On success, it passes the data on to replyGorm.
type replyValidator struct {
	replyGorm
}

// replyGorm runs CRUD operations on the database using incoming Reply data.
type replyGorm struct {
	db *gorm.DB
}

// NewReplyService returns an instance of ReplyService.
func NewReplyService(db *gorm.DB) *ReplyService {
	return &ReplyService{
		replyValidator{
			replyGorm{
				db: db,
			},
		},
	}
}

var _ domain.ReplyService = &ReplyService{}

// Create runs validations needed for creating new Reply database records.
func (rv *replyValidator) Create(ctx context.Context, reply *domain.Reply) error {
	err := runReplyValFns(ctx, reply,
		rv.userIdValid,
		rv.commentMinLength,
		rv.commentMaxLength,
		rv.repliedTweetExists)
	if err != nil {
		return err
	}
	return rv.replyGorm.create(ctx, reply)
}

func runReplyValFns(ctx context.Context, reply *domain.Reply, fns ...replyValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, reply); err != nil {
			return err
		}
	}
	return nil
}

type replyValFn func(ctx context.Context, reply *domain.Reply) error

func (rv *replyValidator) userIdValid(ctx context.Context, reply *domain.Reply) error {
	if reply.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

func (rv *replyValidator) commentMinLength(ctx context.Context, reply *domain.Reply) error {
	reply.Comment = strings.TrimSpace(reply.Comment)
	if reply.Comment == "" {
		return errs.Errorf(errs.EINVALID, "Reply comment must not be empty.")
	}
	return nil
}

func (rv *replyValidator) commentMaxLength(ctx context.Context, reply *domain.Reply) error {
	if utf8.RuneCountInString(reply.Comment) > domain.DescriptionMaxLength {
		return errs.Errorf(errs.EINVALID, "Reply comment max length is %d characters.", domain.DescriptionMaxLength)
	}
	return nil
}

// repliedTweetExists makes sure that the Tweet to be replied to actually exists.
func (rv *replyValidator) repliedTweetExists(ctx context.Context, reply *domain.Reply) error {
	return tweetExists(ctx, rv.db, reply.TweetID)
}

// ByTweet retrieves the replies of a tweet along with their authors, oldest first.
func (rg *replyGorm) ByTweet(ctx context.Context, tweetID int) ([]domain.Reply, error) {
	if err := tweetExists(ctx, rg.db, tweetID); err != nil {
		return nil, err
	}
	replies := []domain.Reply{}
	err := rg.db.WithContext(ctx).
		Scopes(preloadAuthor("User")).
		Where("tweet_id = ?", tweetID).
		Order("created_at").
		Order("id").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// ByUser retrieves the replies of a user along with the replied tweets
// and their authors, newest first.
func (rg *replyGorm) ByUser(ctx context.Context, userID int) ([]domain.Reply, error) {
	if err := userExists(ctx, rg.db, userID); err != nil {
		return nil, err
	}
	replies := []domain.Reply{}
	err := rg.db.WithContext(ctx).
		Scopes(preloadAuthor("User"), preloadAuthor("Tweet.User")).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// create stores the data from the Reply object in a new database record
// and eager-loads its author for the response.
func (rg *replyGorm) create(ctx context.Context, reply *domain.Reply) error {
	db := rg.db.WithContext(ctx)
	if err := db.Create(reply).Error; err != nil {
		return err
	}
	return db.Scopes(preloadAuthor("User")).Take(reply, "id = ?", reply.ID).Error
}
