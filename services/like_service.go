package services

import (
	"context"
	"fmt"

	"socialnet-api/repositories"
)

type LikeService struct {
	likes *repositories.LikeRepository
	posts *repositories.PostRepository
}

func NewLikeService(likes *repositories.LikeRepository, posts *repositories.PostRepository) *LikeService {
	return &LikeService{likes: likes, posts: posts}
}

// Like records the principal's like. Liking twice is a Conflict; the primary
// key on (post_id, user_id) decides a race between two concurrent likes.
func (s *LikeService) Like(ctx context.Context, principal string, postID uint) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return storeErr(err, "post")
	}

	exists, err := s.likes.Exists(ctx, postID, principal)
	if err != nil {
		return storeErr(err, "like")
	}
	if exists {
		return fmt.Errorf("%w: post already liked", ErrConflict)
	}
	if err := s.likes.Create(ctx, postID, principal); err != nil {
		return storeErr(err, "post already liked")
	}
	return nil
}

// Unlike succeeds whether or not a like existed.
func (s *LikeService) Unlike(ctx context.Context, principal string, postID uint) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	return storeErr(s.likes.Delete(ctx, postID, principal), "like")
}
