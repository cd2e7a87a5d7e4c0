package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"socialnet-api/models"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followingID string) error {
	f := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	return errors.Wrap(r.db.WithContext(ctx).Create(f).Error, "create follow")
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
	return errors.Wrap(err, "delete follow")
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count follow")
	}
	return cnt > 0, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count followers")
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count following")
}

// ListFollowers returns the users following userID. Order is the store's
// natural order; a zero limit returns everyone.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string, offset, limit int) ([]models.User, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var users []models.User
	return users, errors.Wrap(q.Find(&users).Error, "list followers")
}

// ListFollowing returns the users userID follows.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string, offset, limit int) ([]models.User, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var users []models.User
	return users, errors.Wrap(q.Find(&users).Error, "list following")
}
