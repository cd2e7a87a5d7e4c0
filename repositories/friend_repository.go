// File: /repositories/friend_repository.go
package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialnet-api/models"
)

// ErrRequestNotPending is returned when a request was resolved by someone
// else between the read and the write.
var ErrRequestNotPending = errors.New("friend request is no longer pending")

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// FindFriendship looks the edge up in either orientation.
func (r *FriendRepository) FindFriendship(ctx context.Context, a, b string) (*models.Friendship, error) {
	u1, u2 := models.CanonicalPair(a, b)
	var f models.Friendship
	if err := r.db.WithContext(ctx).First(&f, "user1_id = ? AND user2_id = ?", u1, u2).Error; err != nil {
		return nil, errors.Wrap(err, "find friendship")
	}
	return &f, nil
}

func (r *FriendRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	u1, u2 := models.CanonicalPair(a, b)
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count friendship")
	}
	return cnt > 0, nil
}

// CreateRequest inserts a pending request. The pending key makes a second
// pending request for the same ordered pair a unique violation.
func (r *FriendRepository) CreateRequest(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestStatusPending,
		PendingKey: models.PendingKeyFor(senderID, receiverID),
	}
	if err := r.db.WithContext(ctx).Omit("Sender", "Receiver").Create(req).Error; err != nil {
		return nil, errors.Wrap(err, "create friend request")
	}
	return req, nil
}

// FindPendingRequest returns the pending request sent from senderID to
// receiverID.
func (r *FriendRepository) FindPendingRequest(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, models.FriendRequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, errors.Wrap(err, "find pending request")
	}
	return &req, nil
}

// FindPendingForReceiver returns request id only if it is pending and
// addressed to receiverID.
func (r *FriendRepository) FindPendingForReceiver(ctx context.Context, id uint, receiverID string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ? AND status = ?", id, receiverID, models.FriendRequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find pending request %d", id)
	}
	return &req, nil
}

// AcceptRequest marks the request accepted and creates the friendship in one
// transaction. A pending request in the opposite direction is resolved too.
func (r *FriendRepository) AcceptRequest(ctx context.Context, req *models.FriendRequest) (*models.Friendship, error) {
	friendship := models.NewFriendship(req.SenderID, req.ReceiverID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", req.ID, models.FriendRequestStatusPending).
			Updates(map[string]interface{}{
				"status":      models.FriendRequestStatusAccepted,
				"pending_key": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestNotPending
		}

		if err := tx.Model(&models.FriendRequest{}).
			Where("sender_id = ? AND receiver_id = ? AND status = ?", req.ReceiverID, req.SenderID, models.FriendRequestStatusPending).
			Updates(map[string]interface{}{
				"status":      models.FriendRequestStatusAccepted,
				"pending_key": nil,
			}).Error; err != nil {
			return err
		}

		if err := tx.Omit("User1", "User2").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(friendship).Error; err != nil {
			return err
		}
		return tx.First(friendship, "user1_id = ? AND user2_id = ?", friendship.User1ID, friendship.User2ID).Error
	})
	if err != nil {
		return nil, errors.Wrapf(err, "accept friend request %d", req.ID)
	}

	req.Status = models.FriendRequestStatusAccepted
	req.PendingKey = nil
	return friendship, nil
}

// DeclineRequest moves a pending request to declined. The row is kept until
// the cleanup job purges it.
func (r *FriendRepository) DeclineRequest(ctx context.Context, req *models.FriendRequest) error {
	res := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", req.ID, models.FriendRequestStatusPending).
		Updates(map[string]interface{}{
			"status":      models.FriendRequestStatusDeclined,
			"pending_key": nil,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "decline friend request %d", req.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrRequestNotPending, "decline friend request %d", req.ID)
	}
	req.Status = models.FriendRequestStatusDeclined
	req.PendingKey = nil
	return nil
}

// DeleteFriendship removes the edge in whichever orientation it is stored.
// Removing a missing edge is not an error.
func (r *FriendRepository) DeleteFriendship(ctx context.Context, a, b string) error {
	u1, u2 := models.CanonicalPair(a, b)
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Delete(&models.Friendship{}).Error
	return errors.Wrap(err, "delete friendship")
}

func (r *FriendRepository) ListPendingReceived(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").Order("id DESC").
		Find(&reqs).Error
	return reqs, errors.Wrap(err, "list received requests")
}

func (r *FriendRepository) ListPendingSent(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Receiver").
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").Order("id DESC").
		Find(&reqs).Error
	return reqs, errors.Wrap(err, "list sent requests")
}

// ListFriendships returns every edge touching userID, newest first, with both
// endpoints loaded.
func (r *FriendRepository) ListFriendships(ctx context.Context, userID string) ([]models.Friendship, error) {
	var out []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, errors.Wrap(err, "list friendships")
}

// PurgeDeclined hard-deletes declined requests last touched before the
// cutoff and reports how many went.
func (r *FriendRepository) PurgeDeclined(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.FriendRequestStatusDeclined, before).
		Delete(&models.FriendRequest{})
	return res.RowsAffected, errors.Wrap(res.Error, "purge declined requests")
}
