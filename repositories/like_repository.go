package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"socialnet-api/models"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts the like. A second like of the same post by the same user
// violates the primary key.
func (r *LikeRepository) Create(ctx context.Context, postID uint, userID string) error {
	err := r.db.WithContext(ctx).Create(&models.Like{PostID: postID, UserID: userID}).Error
	return errors.Wrap(err, "create like")
}

func (r *LikeRepository) Delete(ctx context.Context, postID uint, userID string) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
	return errors.Wrap(err, "delete like")
}

func (r *LikeRepository) Exists(ctx context.Context, postID uint, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count like")
	}
	return cnt > 0, nil
}

// CountByPosts returns like counts keyed by post id. Posts with no likes are
// absent from the map.
func (r *LikeRepository) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count likes")
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// LikedBy returns the subset of postIDs that userID has liked.
func (r *LikeRepository) LikedBy(ctx context.Context, userID string, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == "" || len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "liked posts")
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// PurgeOrphans deletes likes whose post no longer exists. A like inserted
// while its post is being deleted can outlive the post.
func (r *LikeRepository) PurgeOrphans(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.Where("post_id NOT IN (?)", db.Model(&models.Post{}).Select("id")).
		Delete(&models.Like{})
	return res.RowsAffected, errors.Wrap(res.Error, "purge orphan likes")
}
