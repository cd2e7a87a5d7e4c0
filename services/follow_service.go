package services

import (
	"context"
	"fmt"

	"socialnet-api/models"
	"socialnet-api/repositories"
)

type FollowService struct {
	follows *repositories.FollowRepository
	users   *repositories.UserRepository
}

func NewFollowService(follows *repositories.FollowRepository, users *repositories.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users}
}

func (s *FollowService) Follow(ctx context.Context, principal, targetID string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if principal == targetID {
		return fmt.Errorf("%w: you cannot follow yourself", ErrInvalidOperation)
	}
	if err := s.mustExist(ctx, targetID); err != nil {
		return err
	}

	exists, err := s.follows.Exists(ctx, principal, targetID)
	if err != nil {
		return storeErr(err, "follow")
	}
	if exists {
		return fmt.Errorf("%w: already following", ErrConflict)
	}
	return storeErr(s.follows.Create(ctx, principal, targetID), "already following")
}

// Unfollow succeeds whether or not the edge existed.
func (s *FollowService) Unfollow(ctx context.Context, principal, targetID string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	return storeErr(s.follows.Delete(ctx, principal, targetID), "follow")
}

func (s *FollowService) GetFollowers(ctx context.Context, userID string, page PageRequest) ([]models.UserSummary, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.follows.ListFollowers(ctx, userID, page.offset(), page.Limit)
	if err != nil {
		return nil, storeErr(err, "followers")
	}
	return summaries(users), nil
}

func (s *FollowService) GetFollowing(ctx context.Context, userID string, page PageRequest) ([]models.UserSummary, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.follows.ListFollowing(ctx, userID, page.offset(), page.Limit)
	if err != nil {
		return nil, storeErr(err, "following")
	}
	return summaries(users), nil
}

func (s *FollowService) mustExist(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return storeErr(err, "user")
	}
	if !ok {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return nil
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
