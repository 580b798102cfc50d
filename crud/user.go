package crud

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// UserService manages Users. It also contains the part of the authentication system
// that handles password hashing and credential checks; token issuance lives in the
// auth package, requests and middleware in http/auth.go.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	pepper     string
	emailRegex *regexp.Regexp
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, pepper string) *UserService {
	return &UserService{
		userValidator{
			pepper:     pepper,
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Register runs validations needed for creating new User database records.
// The role of a registered user is always domain.RoleUser.
func (uv *userValidator) Register(ctx context.Context, user *domain.User) error {
	err := runUserValFns(ctx, user,
		uv.accountNormalize,
		uv.accountRequired,
		uv.nameRequired,
		uv.nameMaxLength,
		uv.introductionMaxLength,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.passwordRequired,
		uv.passwordMaxBytes,
		uv.passwordsMatch,
		uv.accountIsAvail,
		uv.emailIsAvail,
		uv.passwordBcrypt,
		uv.passwordHashRequired,
		uv.roleUser)
	if err != nil {
		return err
	}
	return uv.userGorm.create(ctx, user)
}

// Authenticate checks a submitted account and password for existence and correctness.
// Both an unknown account and a wrong password result in the same error, so that
// the response doesn't reveal which accounts exist.
func (uv *userValidator) Authenticate(ctx context.Context, account, password string) (*domain.User, error) {
	found, err := uv.userGorm.byAccount(ctx, strings.TrimSpace(account))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Account or password is incorrect.")
		}
		return nil, err
	}

	// Append the pepper to the submitted password, hash it, and compare the result to the
	// password hash stored in the user's database record.
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Account or password is incorrect.")
		}
		return nil, err
	}
	return found, nil
}

// Update applies a profile update to the user with the given ID. Only the user
// themselves may update their profile. It returns the updated profile.
func (uv *userValidator) Update(ctx context.Context, viewerID, id int, upd *domain.UserUpdate) (*domain.User, error) {
	if viewerID != id {
		return nil, errs.Errorf(errs.EFORBIDDEN, "You are not allowed to update this user.")
	}
	user, err := uv.userGorm.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUserUpdate(user, upd)

	err = runUserValFns(ctx, user,
		uv.accountNormalize,
		uv.accountRequired,
		uv.nameRequired,
		uv.nameMaxLength,
		uv.introductionMaxLength,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.passwordMaxBytes,
		uv.passwordsMatch,
		uv.accountIsAvail,
		uv.emailIsAvail,
		uv.passwordBcrypt,
		uv.passwordHashRequired)
	if err != nil {
		return nil, err
	}
	if err := uv.userGorm.save(ctx, user); err != nil {
		return nil, err
	}
	return uv.userGorm.Profile(ctx, viewerID, id)
}

// Delete makes sure that the user exists and is not an admin before deleting it.
func (uv *userValidator) Delete(ctx context.Context, id int) error {
	user, err := uv.userGorm.ByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return errs.Errorf(errs.EINVALID, "Admins cannot be deleted.")
	}
	return uv.userGorm.Delete(ctx, id)
}

// applyUserUpdate copies all non-nil fields of the update onto the user.
func applyUserUpdate(user *domain.User, upd *domain.UserUpdate) {
	if upd == nil {
		return
	}
	if upd.Account != nil {
		user.Account = *upd.Account
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Introduction != nil {
		user.Introduction = *upd.Introduction
	}
	if upd.Avatar != nil {
		user.Avatar = *upd.Avatar
	}
	if upd.CoverImage != nil {
		user.CoverImage = *upd.CoverImage
	}
	if upd.Password != nil {
		user.Password = *upd.Password
		if upd.CheckPassword != nil {
			user.CheckPassword = *upd.CheckPassword
		}
	}
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(ctx context.Context, user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn func(ctx context.Context, user *domain.User) error

// accountNormalize trims the account's whitespaces.
func (uv *userValidator) accountNormalize(ctx context.Context, user *domain.User) error {
	user.Account = strings.TrimSpace(user.Account)
	return nil
}

// accountRequired makes sure that the account is not the empty string.
func (uv *userValidator) accountRequired(ctx context.Context, user *domain.User) error {
	if user.Account == "" {
		return errs.Errorf(errs.EINVALID, "An account is required.")
	}
	return nil
}

// accountIsAvail makes sure that the account is not yet taken by another user.
func (uv *userValidator) accountIsAvail(ctx context.Context, user *domain.User) error {
	existing, err := uv.userGorm.byAccount(ctx, user.Account)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "Account is already registered.")
	}
	return nil
}

// nameRequired makes sure that the name is not blank.
func (uv *userValidator) nameRequired(ctx context.Context, user *domain.User) error {
	user.Name = strings.TrimSpace(user.Name)
	if user.Name == "" {
		return errs.Errorf(errs.EINVALID, "A name is required.")
	}
	return nil
}

// nameMaxLength makes sure that the name does not exceed domain.NameMaxLength characters.
func (uv *userValidator) nameMaxLength(ctx context.Context, user *domain.User) error {
	if utf8.RuneCountInString(user.Name) > domain.NameMaxLength {
		return errs.Errorf(errs.EINVALID, "The name must not have more than %d characters.", domain.NameMaxLength)
	}
	return nil
}

// introductionMaxLength makes sure that the introduction does not exceed domain.IntroductionMaxLength characters.
func (uv *userValidator) introductionMaxLength(ctx context.Context, user *domain.User) error {
	if utf8.RuneCountInString(user.Introduction) > domain.IntroductionMaxLength {
		return errs.Errorf(errs.EINVALID, "The introduction must not have more than %d characters.", domain.IntroductionMaxLength)
	}
	return nil
}

// emailFormat makes sure that a provided email address matches a predefined regex pattern.
func (uv *userValidator) emailFormat(ctx context.Context, user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "The email address is invalid.")
	}
	return nil
}

// emailIsAvail makes sure that a provided email address is not yet taken.
func (uv *userValidator) emailIsAvail(ctx context.Context, user *domain.User) error {
	existing, err := uv.userGorm.byEmail(ctx, user.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Address is not taken.
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		// Email found, and the passed in user is not the owner of that email.
		return errs.Errorf(errs.ECONFLICT, "Email is already registered.")
	}
	return nil
}

// emailNormalize converts the email to all lowercase and trims its whitespaces.
func (uv *userValidator) emailNormalize(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	user.Email = strings.TrimSpace(user.Email)
	return nil
}

// emailRequired makes sure that the email is not the empty string.
func (uv *userValidator) emailRequired(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "An email address is required.")
	}
	return nil
}

// passwordBcrypt hashes a user's password with a predefined pepper.
// It bcrypts it, if the Password field is not the empty string.
// It then clears the password on the user object in memory.
func (uv *userValidator) passwordBcrypt(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	pwBytes := []byte(user.Password + uv.pepper)
	hashedBytes, err := bcrypt.GenerateFromPassword(pwBytes, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedBytes)
	user.Password = ""
	user.CheckPassword = ""
	return nil
}

// passwordHashRequired makes sure that the user's password hash is not the empty string.
func (uv *userValidator) passwordHashRequired(ctx context.Context, user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// passwordMaxBytes makes sure that the password fits into bcrypt's 72 byte input limit.
func (uv *userValidator) passwordMaxBytes(ctx context.Context, user *domain.User) error {
	if len(user.Password+uv.pepper) > 72 {
		return errs.Errorf(errs.EINVALID, "The password is too long.")
	}
	return nil
}

// passwordRequired makes sure that the user's password is not the empty string.
func (uv *userValidator) passwordRequired(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// passwordsMatch makes sure that a new password has been typed in twice the same way.
func (uv *userValidator) passwordsMatch(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	if user.Password != user.CheckPassword {
		return errs.Errorf(errs.EINVALID, "Passwords do not match.")
	}
	return nil
}

// roleUser makes sure that nobody can register as an admin.
func (uv *userValidator) roleUser(ctx context.Context, user *domain.User) error {
	user.Role = domain.RoleUser
	return nil
}

// ByID retrieves a User database record by ID, without any derived counts.
func (ug *userGorm) ByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// Profile retrieves a User together with its tweet, reply, like, follower and following
// counts, and whether the viewer follows that user. Everything is computed by a single query.
func (ug *userGorm) Profile(ctx context.Context, viewerID, id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).
		Model(&domain.User{}).
		Select(userColumns, viewerID).
		Where("users.id = ?", id).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// Followers retrieves the users following the user with the given ID, most recent follow first.
func (ug *userGorm) Followers(ctx context.Context, viewerID, id int) ([]domain.User, error) {
	if err := userExists(ctx, ug.db, id); err != nil {
		return nil, err
	}
	users := []domain.User{}
	err := ug.db.WithContext(ctx).
		Model(&domain.User{}).
		Select(userColumns, viewerID).
		Joins("JOIN followships ON followships.follower_id = users.id").
		Where("followships.following_id = ?", id).
		Order("followships.created_at DESC").
		Order("followships.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Followings retrieves the users followed by the user with the given ID, most recent follow first.
func (ug *userGorm) Followings(ctx context.Context, viewerID, id int) ([]domain.User, error) {
	if err := userExists(ctx, ug.db, id); err != nil {
		return nil, err
	}
	users := []domain.User{}
	err := ug.db.WithContext(ctx).
		Model(&domain.User{}).
		Select(userColumns, viewerID).
		Joins("JOIN followships ON followships.following_id = users.id").
		Where("followships.follower_id = ?", id).
		Order("followships.created_at DESC").
		Order("followships.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Top retrieves the regular users with the most followers, leaving out the viewer.
func (ug *userGorm) Top(ctx context.Context, viewerID, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	users := []domain.User{}
	err := ug.db.WithContext(ctx).
		Model(&domain.User{}).
		Select(userColumns, viewerID).
		Where("users.role = ?", domain.RoleUser).
		Where("users.id <> ?", viewerID).
		Order("follower_count DESC").
		Order("users.created_at").
		Order("users.id").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AdminList retrieves all users with their counts, the most active tweeters first.
func (ug *userGorm) AdminList(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := ug.db.WithContext(ctx).
		Model(&domain.User{}).
		Select(userColumns, 0).
		Order("tweet_count DESC").
		Order("users.created_at").
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Delete permanently deletes a user along with their tweets (and everything attached
// to those tweets), replies, likes and followships, in a single transaction.
func (ug *userGorm) Delete(ctx context.Context, id int) error {
	return ug.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownTweets := func() *gorm.DB {
			return tx.Model(&domain.Tweet{}).Select("id").Where("user_id = ?", id)
		}
		if err := tx.Where("user_id = ? OR tweet_id IN (?)", id, ownTweets()).Delete(&domain.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR tweet_id IN (?)", id, ownTweets()).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Tweet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&domain.Followship{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
}

// byAccount retrieves a User database record by Account.
func (ug *userGorm) byAccount(ctx context.Context, account string) (*domain.User, error) {
	var user domain.User
	db := ug.db.WithContext(ctx).Where("account = ?", account)
	err := first(db, &user)
	return &user, err
}

// byEmail retrieves a User database record by Email.
func (ug *userGorm) byEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	db := ug.db.WithContext(ctx).Where("email = ?", email)
	err := first(db, &user)
	return &user, err
}

// create stores the data from the User object in a new database record.
func (ug *userGorm) create(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Account or email is already registered.")
	}
	return err
}

// save saves changes to an existing user record in the database.
func (ug *userGorm) save(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Account or email is already registered.")
	}
	return err
}

// first is a helper for getting the first database record that matches a given query.
func first(db *gorm.DB, dst interface{}) error {
	return db.First(dst).Error
}
