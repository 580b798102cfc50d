package crud

import (
	"gorm.io/gorm"

	"simpleTwitter/domain"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db         *gorm.DB
	User       *UserService
	Tweet      *TweetService
	Reply      *ReplyService
	Like       *LikeService
	Followship *FollowshipService
	Image      *ImageService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// AutoMigrate runs database migrations for all tables.
func (s *Services) AutoMigrate() error {
	return s.db.AutoMigrate(domain.Tables()...)
}

// DestructiveReset drops all tables and rebuilds them.
func (s *Services) DestructiveReset() error {
	if err := s.db.Migrator().DropTable(domain.Tables()...); err != nil {
		return err
	}
	return s.AutoMigrate()
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser(pepper string) ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db, pepper)
		return nil
	}
}

// WithTweet wraps the constructor of TweetService, NewTweetService.
func WithTweet() ServicesConfig {
	return func(s *Services) error {
		s.Tweet = NewTweetService(s.db)
		return nil
	}
}

// WithReply wraps the constructor of ReplyService, NewReplyService.
func WithReply() ServicesConfig {
	return func(s *Services) error {
		s.Reply = NewReplyService(s.db)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
func WithLike() ServicesConfig {
	return func(s *Services) error {
		s.Like = NewLikeService(s.db)
		return nil
	}
}

// WithFollowship wraps the constructor of FollowshipService, NewFollowshipService.
func WithFollowship() ServicesConfig {
	return func(s *Services) error {
		s.Followship = NewFollowshipService(s.db)
		return nil
	}
}

// WithImage wraps the constructor of ImageService, NewImageService.
func WithImage(host domain.ImageHost) ServicesConfig {
	return func(s *Services) error {
		s.Image = NewImageService(host)
		return nil
	}
}
