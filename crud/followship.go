package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// FollowshipService manages Followships.
// It implements the domain.FollowshipService interface.
type FollowshipService struct {
	followshipValidator
}

type followshipValidator struct {
	followshipGorm
}

type followshipGorm struct {
	db *gorm.DB
}

// NewFollowshipService returns an instance of FollowshipService.
func NewFollowshipService(db *gorm.DB) *FollowshipService {
	return &FollowshipService{
		followshipValidator{
			followshipGorm{
				db: db,
			},
		},
	}
}

var _ domain.FollowshipService = &FollowshipService{}

// Follow runs validations needed for creating new Followship database records.
func (fv *followshipValidator) Follow(ctx context.Context, followerID, followingID int) (*domain.Followship, error) {
	followship := &domain.Followship{FollowerID: followerID, FollowingID: followingID}
	err := runFollowshipValFns(ctx, followship,
		fv.followerIdValid,
		fv.followingIsNotFollower,
		fv.followingUserExists,
		fv.notAlreadyFollowed)
	if err != nil {
		return nil, err
	}
	if err := fv.followshipGorm.create(ctx, followship); err != nil {
		return nil, err
	}
	return followship, nil
}

// Unfollow runs validations needed for deleting existing Followship database records.
func (fv *followshipValidator) Unfollow(ctx context.Context, followerID, followingID int) error {
	followship := &domain.Followship{FollowerID: followerID, FollowingID: followingID}
	if err := runFollowshipValFns(ctx, followship, fv.followshipExists); err != nil {
		return err
	}
	return fv.followshipGorm.delete(ctx, followship)
}

func runFollowshipValFns(ctx context.Context, followship *domain.Followship, fns ...followshipValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, followship); err != nil {
			return err
		}
	}
	return nil
}

type followshipValFn func(ctx context.Context, followship *domain.Followship) error

func (fv *followshipValidator) followerIdValid(ctx context.Context, followship *domain.Followship) error {
	if followship.FollowerID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

func (fv *followshipValidator) followingIsNotFollower(ctx context.Context, followship *domain.Followship) error {
	if followship.FollowerID == followship.FollowingID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// followingUserExists makes sure that the user to be followed exists and is a regular user.
func (fv *followshipValidator) followingUserExists(ctx context.Context, followship *domain.Followship) error {
	var user domain.User
	err := fv.db.WithContext(ctx).Select("id", "role").Take(&user, "id = ?", followship.FollowingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	if user.IsAdmin() {
		return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
	}
	return nil
}

func (fv *followshipValidator) notAlreadyFollowed(ctx context.Context, followship *domain.Followship) error {
	var existing domain.Followship
	err := fv.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followship.FollowerID, followship.FollowingID).
		First(&existing).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// followshipExists makes sure that the Followship to be deleted exists
// and loads its ID into the passed in object.
func (fv *followshipValidator) followshipExists(ctx context.Context, followship *domain.Followship) error {
	err := fv.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followship.FollowerID, followship.FollowingID).
		First(followship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "You don't follow this user.")
		}
		return err
	}
	return nil
}

func (fg *followshipGorm) create(ctx context.Context, followship *domain.Followship) error {
	err := fg.db.WithContext(ctx).Create(followship).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	}
	return err
}

func (fg *followshipGorm) delete(ctx context.Context, followship *domain.Followship) error {
	return fg.db.WithContext(ctx).Delete(followship).Error
}
