package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialnet-api/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "find user %s", id)
	}
	return &user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count user")
	}
	return cnt > 0, nil
}

// Provision inserts the row unless one with the same id already exists.
func (r *UserRepository) Provision(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user).Error
	return errors.Wrap(err, "provision user")
}

// Update applies column updates to one user. Keys are column names.
func (r *UserRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update user")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports changed rows, not matched ones.
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(gorm.ErrRecordNotFound, "update user %s", id)
	}
	return nil
}

// Search matches the query exactly against name or email.
func (r *UserRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("(name = ? OR email = ?) AND id <> ?", query, query, excludeID).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error
	return users, errors.Wrap(err, "search users")
}
