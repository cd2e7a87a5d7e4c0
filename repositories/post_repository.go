package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"socialnet-api/models"
)

// PostFilter narrows a post listing. A zero Limit returns every row.
type PostFilter struct {
	CreatedByID string
	Offset      int
	Limit       int
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Omit("CreatedBy").Create(post).Error
	return errors.Wrap(err, "create post")
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("CreatedBy").First(&post, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "find post %d", id)
	}
	return &post, nil
}

// FindOwned returns the post only when ownerID created it.
func (r *PostRepository) FindOwned(ctx context.Context, id uint, ownerID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ? AND created_by_id = ?", id, ownerID).Error; err != nil {
		return nil, errors.Wrapf(err, "find post %d owned by %s", id, ownerID)
	}
	return &post, nil
}

// List returns posts newest first together with the total matching count.
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.CreatedByID != "" {
		base = base.Where("created_by_id = ?", filter.CreatedByID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count posts")
	}

	q := base.Session(&gorm.Session{}).Preload("CreatedBy").Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list posts")
	}
	return posts, total, nil
}

// Latest returns the most recent post, or gorm.ErrRecordNotFound.
func (r *PostRepository) Latest(ctx context.Context) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("CreatedBy").Order("created_at DESC").Order("id DESC").First(&post).Error
	if err != nil {
		return nil, errors.Wrap(err, "latest post")
	}
	return &post, nil
}

func (r *PostRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("name", content).Error
	return errors.Wrap(err, "update post")
}

// Delete removes the post and its likes in one transaction.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	return errors.Wrap(err, "delete post")
}
