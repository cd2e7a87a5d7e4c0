package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialnet-api/logger"
	"socialnet-api/models"
	"socialnet-api/repositories"
)

// PageRequest selects a page of a listing. A zero Limit means the full list.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) offset() int {
	if p.Limit <= 0 || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type PostService struct {
	posts    *repositories.PostRepository
	likes    *repositories.LikeRepository
	users    *repositories.UserRepository
	notifier FeedNotifier
}

func NewPostService(
	posts *repositories.PostRepository,
	likes *repositories.LikeRepository,
	users *repositories.UserRepository,
	notifier FeedNotifier,
) *PostService {
	if notifier == nil {
		notifier = NoopFeedNotifier{}
	}
	return &PostService{posts: posts, likes: likes, users: users, notifier: notifier}
}

func (s *PostService) Create(ctx context.Context, principal string, in CreatePostInput) (*models.PostDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	post := &models.Post{Name: in.Content, CreatedByID: principal}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeErr(err, "post")
	}
	s.notifier.Notify(ctx, FeedPostCreated, post.ID, principal)

	logger.Debug("post created", zap.Uint("post_id", post.ID), zap.String("user_id", principal))
	return s.get(ctx, principal, post.ID)
}

// List returns the global feed, newest first. viewer may be empty.
func (s *PostService) List(ctx context.Context, viewer string, page PageRequest) (*models.FeedResponse, error) {
	return s.list(ctx, viewer, repositories.PostFilter{}, page)
}

func (s *PostService) ListByUser(ctx context.Context, viewer, userID string, page PageRequest) (*models.FeedResponse, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if !ok {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return s.list(ctx, viewer, repositories.PostFilter{CreatedByID: userID}, page)
}

// Latest returns the newest post, or nil when there are none.
func (s *PostService) Latest(ctx context.Context, viewer string) (*models.PostDTO, error) {
	post, err := s.posts.Latest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "post")
	}
	dtos, err := s.toDTOs(ctx, viewer, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// Update rewrites the content of a post the principal owns. A missing post
// and someone else's post are indistinguishable to the caller.
func (s *PostService) Update(ctx context.Context, principal string, id uint, in UpdatePostInput) (*models.PostDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.posts.FindOwned(ctx, id, principal); err != nil {
		return nil, ownedErr(err)
	}
	if err := s.posts.UpdateContent(ctx, id, in.Content); err != nil {
		return nil, storeErr(err, "post")
	}
	s.notifier.Notify(ctx, FeedPostUpdated, id, principal)
	return s.get(ctx, principal, id)
}

// Delete removes a post the principal owns together with its likes.
func (s *PostService) Delete(ctx context.Context, principal string, id uint) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if _, err := s.posts.FindOwned(ctx, id, principal); err != nil {
		return ownedErr(err)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return storeErr(err, "post")
	}
	s.notifier.Notify(ctx, FeedPostDeleted, id, principal)
	return nil
}

func (s *PostService) FeedVersion(ctx context.Context) (int64, error) {
	return s.notifier.Version(ctx)
}

func (s *PostService) get(ctx context.Context, viewer string, id uint) (*models.PostDTO, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "post")
	}
	dtos, err := s.toDTOs(ctx, viewer, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *PostService) list(ctx context.Context, viewer string, filter repositories.PostFilter, page PageRequest) (*models.FeedResponse, error) {
	filter.Offset = page.offset()
	filter.Limit = page.Limit

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "post")
	}
	dtos, err := s.toDTOs(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	resp := &models.FeedResponse{Posts: dtos, Total: total}
	if page.Limit > 0 {
		p := page.Page
		if p < 1 {
			p = 1
		}
		resp.Page = p
		resp.Limit = page.Limit
		resp.TotalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
		resp.HasMore = int64(filter.Offset+len(dtos)) < total
	}
	return resp, nil
}

// toDTOs attaches author, like count and the viewer's liked flag. Counts are
// derived from the likes table on every read.
func (s *PostService) toDTOs(ctx context.Context, viewer string, posts []models.Post) ([]models.PostDTO, error) {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	counts, err := s.likes.CountByPosts(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "likes")
	}
	liked, err := s.likes.LikedBy(ctx, viewer, ids)
	if err != nil {
		return nil, storeErr(err, "likes")
	}

	out := make([]models.PostDTO, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		dto := models.PostDTO{
			ID:            p.ID,
			Name:          p.Name,
			CreatedAt:     p.CreatedAt,
			LikeCount:     counts[p.ID],
			IsLikedByUser: liked[p.ID],
		}
		if p.CreatedBy != nil {
			dto.CreatedBy = p.CreatedBy.Summary()
		} else {
			dto.CreatedBy = models.UserSummary{ID: p.CreatedByID}
		}
		out = append(out, dto)
	}
	return out, nil
}

// ownedErr collapses "missing" and "not yours" into one NotFound.
func ownedErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: post not found or access denied", ErrNotFound)
	}
	return storeErr(err, "post")
}
