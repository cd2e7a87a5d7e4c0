package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialnet-api/logger"
	"socialnet-api/models"
	"socialnet-api/repositories"
)

type FriendService struct {
	friends  *repositories.FriendRepository
	users    *repositories.UserRepository
	notifier FriendRequestNotifier
}

// NewFriendService wires the workflow. notifier may be nil.
func NewFriendService(friends *repositories.FriendRepository, users *repositories.UserRepository, notifier FriendRequestNotifier) *FriendService {
	return &FriendService{friends: friends, users: users, notifier: notifier}
}

// SendRequest opens a pending request from the principal to receiverID.
func (s *FriendService) SendRequest(ctx context.Context, principal, receiverID string) (*models.FriendRequestDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if receiverID == "" {
		return nil, fieldError("receiverId", "is required")
	}
	if principal == receiverID {
		return nil, fmt.Errorf("%w: you cannot send a friend request to yourself", ErrInvalidOperation)
	}

	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	friends, err := s.friends.AreFriends(ctx, principal, receiverID)
	if err != nil {
		return nil, storeErr(err, "friendship")
	}
	if friends {
		return nil, fmt.Errorf("%w: already friends", ErrConflict)
	}

	_, err = s.friends.FindPendingRequest(ctx, principal, receiverID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: friend request already sent", ErrConflict)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storeErr(err, "friend request")
	}

	req, err := s.friends.CreateRequest(ctx, principal, receiverID)
	if err != nil {
		return nil, storeErr(err, "friend request already sent")
	}
	logger.Info("friend request sent",
		zap.Uint("request_id", req.ID),
		zap.String("sender_id", principal),
		zap.String("receiver_id", receiverID),
	)

	if s.notifier != nil {
		if sender, err := s.users.FindByID(ctx, principal); err == nil {
			go s.notifier.FriendRequestSent(sender, receiver)
		}
	}
	return requestDTO(req), nil
}

// AcceptRequest accepts a pending request addressed to the principal. The
// status change and the friendship insert commit together.
func (s *FriendService) AcceptRequest(ctx context.Context, principal string, requestID uint) (*models.FriendDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	req, err := s.friends.FindPendingForReceiver(ctx, requestID, principal)
	if err != nil {
		return nil, requestErr(err)
	}

	friendship, err := s.friends.AcceptRequest(ctx, req)
	if err != nil {
		return nil, requestErr(err)
	}

	sender, err := s.users.FindByID(ctx, req.SenderID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return &models.FriendDTO{UserSummary: sender.Summary(), FriendshipCreatedAt: friendship.CreatedAt}, nil
}

func (s *FriendService) DeclineRequest(ctx context.Context, principal string, requestID uint) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	req, err := s.friends.FindPendingForReceiver(ctx, requestID, principal)
	if err != nil {
		return requestErr(err)
	}
	return requestErr(s.friends.DeclineRequest(ctx, req))
}

// RemoveFriend deletes the friendship if there is one.
func (s *FriendService) RemoveFriend(ctx context.Context, principal, friendID string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	return storeErr(s.friends.DeleteFriendship(ctx, principal, friendID), "friendship")
}

// Status classifies the relation between the principal and targetID. The
// checks run in priority order and the first match wins.
func (s *FriendService) Status(ctx context.Context, principal, targetID string) (*models.FriendshipStatusResponse, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if principal == targetID {
		return &models.FriendshipStatusResponse{Status: models.FriendshipStateSelf}, nil
	}

	friends, err := s.friends.AreFriends(ctx, principal, targetID)
	if err != nil {
		return nil, storeErr(err, "friendship")
	}
	if friends {
		return &models.FriendshipStatusResponse{Status: models.FriendshipStateFriends}, nil
	}

	if req, err := s.friends.FindPendingRequest(ctx, principal, targetID); err == nil {
		return &models.FriendshipStatusResponse{Status: models.FriendshipStateRequestSent, RequestID: &req.ID}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err, "friend request")
	}

	if req, err := s.friends.FindPendingRequest(ctx, targetID, principal); err == nil {
		return &models.FriendshipStatusResponse{Status: models.FriendshipStateRequestReceived, RequestID: &req.ID}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err, "friend request")
	}

	return &models.FriendshipStatusResponse{Status: models.FriendshipStateNone}, nil
}

// PendingRequests lists requests waiting on the principal, newest first.
func (s *FriendService) PendingRequests(ctx context.Context, principal string) ([]models.FriendRequestDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	reqs, err := s.friends.ListPendingReceived(ctx, principal)
	if err != nil {
		return nil, storeErr(err, "friend requests")
	}
	return requestDTOs(reqs), nil
}

func (s *FriendService) SentRequests(ctx context.Context, principal string) ([]models.FriendRequestDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	reqs, err := s.friends.ListPendingSent(ctx, principal)
	if err != nil {
		return nil, storeErr(err, "friend requests")
	}
	return requestDTOs(reqs), nil
}

// Friends lists the principal's friends, most recent friendship first.
func (s *FriendService) Friends(ctx context.Context, principal string) ([]models.FriendDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	edges, err := s.friends.ListFriendships(ctx, principal)
	if err != nil {
		return nil, storeErr(err, "friends")
	}

	out := make([]models.FriendDTO, 0, len(edges))
	for i := range edges {
		e := &edges[i]
		other := e.User2
		if e.User2ID == principal {
			other = e.User1
		}
		summary := models.UserSummary{ID: e.Other(principal)}
		if other != nil {
			summary = other.Summary()
		}
		out = append(out, models.FriendDTO{UserSummary: summary, FriendshipCreatedAt: e.CreatedAt})
	}
	return out, nil
}

// requestErr folds "missing", "not addressed to you" and "already resolved"
// into one NotFound.
func requestErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repositories.ErrRequestNotPending) {
		return fmt.Errorf("%w: friend request not found or access denied", ErrNotFound)
	}
	return storeErr(err, "friend request")
}

func requestDTO(r *models.FriendRequest) *models.FriendRequestDTO {
	dto := &models.FriendRequestDTO{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
	if r.Sender != nil {
		s := r.Sender.Summary()
		dto.Sender = &s
	}
	if r.Receiver != nil {
		s := r.Receiver.Summary()
		dto.Receiver = &s
	}
	return dto
}

func requestDTOs(reqs []models.FriendRequest) []models.FriendRequestDTO {
	out := make([]models.FriendRequestDTO, 0, len(reqs))
	for i := range reqs {
		out = append(out, *requestDTO(&reqs[i]))
	}
	return out
}
