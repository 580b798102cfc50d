package crud

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

const testPassword = "12345678"

// fakeImageHost keeps uploaded images in memory.
type fakeImageHost struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (h *fakeImageHost) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.objects == nil {
		h.objects = make(map[string][]byte)
	}
	h.objects[key] = data
	return "https://images.example.com/" + key, nil
}

func (h *fakeImageHost) Remove(ctx context.Context, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.objects, key)
	return nil
}

func setupTestServices(t *testing.T) (*Services, *fakeImageHost) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	host := &fakeImageHost{}
	services, err := NewServices(db,
		WithUser("test-pepper"),
		WithTweet(),
		WithReply(),
		WithLike(),
		WithFollowship(),
		WithImage(host),
	)
	require.NoError(t, err)
	require.NoError(t, services.AutoMigrate())

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return services, host
}

func registerUser(t *testing.T, s *Services, account string) *domain.User {
	t.Helper()
	user := &domain.User{
		Account:       account,
		Name:          "Name of " + account,
		Email:         fmt.Sprintf("%s@example.com", account),
		Password:      testPassword,
		CheckPassword: testPassword,
	}
	require.NoError(t, s.User.Register(context.Background(), user))
	return user
}

func makeAdmin(t *testing.T, s *Services, user *domain.User) {
	t.Helper()
	require.NoError(t, s.db.Model(&domain.User{}).Where("id = ?", user.ID).Update("role", domain.RoleAdmin).Error)
	user.Role = domain.RoleAdmin
}

func postTweet(t *testing.T, s *Services, user *domain.User, description string) *domain.Tweet {
	t.Helper()
	tweet := &domain.Tweet{UserID: user.ID, Description: description}
	require.NoError(t, s.Tweet.Create(context.Background(), tweet))
	return tweet
}

func postReply(t *testing.T, s *Services, user *domain.User, tweet *domain.Tweet, comment string) *domain.Reply {
	t.Helper()
	reply := &domain.Reply{UserID: user.ID, TweetID: tweet.ID, Comment: comment}
	require.NoError(t, s.Reply.Create(context.Background(), reply))
	return reply
}

func count(t *testing.T, s *Services, model interface{}, query string, args ...interface{}) int {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Where(query, args...).Count(&n).Error)
	return int(n)
}

func requireCode(t *testing.T, code string, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errs.ErrorCode(err), errs.ErrorMessage(err))
}
