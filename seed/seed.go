// Package seed fills an empty database with an admin, a handful of users and
// random tweets, replies, likes and followships for development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"simpleTwitter/crud"
	"simpleTwitter/domain"
)

const (
	// Password is the password of every seeded account.
	Password = "12345678"

	userCount       = 5
	tweetsPerUser   = 10
	repliesPerTweet = 3
)

// Run seeds the database unless it already contains users.
// The seed parameter makes the generated content reproducible; 0 picks a random one.
func Run(ctx context.Context, db *gorm.DB, services *crud.Services, seed int64) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		slog.InfoContext(ctx, "seed skipped, database is not empty", slog.Int64("users", existing))
		return nil
	}

	faker := gofakeit.New(seed)

	admin := &domain.User{
		Account:       "root",
		Name:          "root",
		Email:         "root@example.com",
		Password:      Password,
		CheckPassword: Password,
	}
	if err := services.User.Register(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := db.WithContext(ctx).Model(admin).Update("role", domain.RoleAdmin).Error; err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}

	users := make([]*domain.User, 0, userCount)
	for i := 1; i <= userCount; i++ {
		user := &domain.User{
			Account:       fmt.Sprintf("user%d", i),
			Name:          truncate(faker.Name(), domain.NameMaxLength),
			Email:         fmt.Sprintf("user%d@example.com", i),
			Introduction:  truncate(faker.Sentence(12), domain.IntroductionMaxLength),
			Password:      Password,
			CheckPassword: Password,
		}
		if err := services.User.Register(ctx, user); err != nil {
			return fmt.Errorf("seed %s: %w", user.Account, err)
		}
		users = append(users, user)
	}

	var tweets []*domain.Tweet
	for _, user := range users {
		for i := 0; i < tweetsPerUser; i++ {
			tweet := &domain.Tweet{
				UserID:      user.ID,
				Description: truncate(faker.Sentence(faker.Number(4, 16)), domain.DescriptionMaxLength),
			}
			if err := services.Tweet.Create(ctx, tweet); err != nil {
				return fmt.Errorf("seed tweet: %w", err)
			}
			tweets = append(tweets, tweet)
		}
	}

	for _, tweet := range tweets {
		for i := 0; i < repliesPerTweet; i++ {
			reply := &domain.Reply{
				UserID:  users[faker.Number(0, len(users)-1)].ID,
				TweetID: tweet.ID,
				Comment: truncate(faker.Sentence(faker.Number(2, 10)), domain.DescriptionMaxLength),
			}
			if err := services.Reply.Create(ctx, reply); err != nil {
				return fmt.Errorf("seed reply: %w", err)
			}
		}
	}

	// Every user likes roughly a third of all tweets and follows about half of the other users.
	for _, user := range users {
		for _, tweet := range tweets {
			if faker.Number(0, 2) != 0 {
				continue
			}
			if _, err := services.Like.Like(ctx, user.ID, tweet.ID); err != nil {
				return fmt.Errorf("seed like: %w", err)
			}
		}
		for _, other := range users {
			if other.ID == user.ID || !faker.Bool() {
				continue
			}
			if _, err := services.Followship.Follow(ctx, user.ID, other.ID); err != nil {
				return fmt.Errorf("seed followship: %w", err)
			}
		}
	}

	slog.InfoContext(ctx, "database seeded",
		slog.Int("users", len(users)+1),
		slog.Int("tweets", len(tweets)),
	)
	return nil
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
