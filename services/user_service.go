package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialnet-api/logger"
	"socialnet-api/models"
	"socialnet-api/repositories"
)

const searchLimit = 10

type UserService struct {
	users   *repositories.UserRepository
	follows *repositories.FollowRepository
}

func NewUserService(users *repositories.UserRepository, follows *repositories.FollowRepository) *UserService {
	return &UserService{users: users, follows: follows}
}

// Provision creates the identity row the first time a principal is seen.
// Existing rows are left untouched.
func (s *UserService) Provision(ctx context.Context, in ProvisionInput) error {
	if err := requirePrincipal(in.ID); err != nil {
		return err
	}
	u := &models.User{ID: in.ID, Name: in.Name, Email: in.Email}
	if in.Image != "" {
		u.Image = &in.Image
	}
	return storeErr(s.users.Provision(ctx, u), "user")
}

// GetCurrent returns the principal's own profile with follow counts.
func (s *UserService) GetCurrent(ctx context.Context, principal string) (*models.UserDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, principal, principal)
}

// GetProfile loads userID and its derived follow fields concurrently.
// IsFollowing is only set for a viewer looking at someone else.
func (s *UserService) GetProfile(ctx context.Context, viewer, userID string) (*models.UserDTO, error) {
	var (
		user                 *models.User
		followers, following int64
		isFollowing          bool
	)
	withRelation := viewer != "" && viewer != userID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.FindByID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = s.follows.CountFollowers(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.follows.CountFollowing(gctx, userID)
		return err
	})
	if withRelation {
		g.Go(func() error {
			var err error
			isFollowing, err = s.follows.Exists(gctx, viewer, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeErr(err, "user")
	}

	dto, err := models.NewUserDTO(user)
	if err != nil {
		return nil, err
	}
	dto.FollowerCount = &followers
	dto.FollowingCount = &following
	if withRelation {
		dto.IsFollowing = &isFollowing
	}
	return dto, nil
}

func (s *UserService) Update(ctx context.Context, principal string, in UpdateProfileInput) (*models.UserDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Bio != nil {
		updates["bio"] = nullable(*in.Bio)
	}
	if in.Location != nil {
		updates["location"] = nullable(*in.Location)
	}
	if len(updates) > 0 {
		if err := s.users.Update(ctx, principal, updates); err != nil {
			return nil, storeErr(err, "user")
		}
	}
	return s.GetCurrent(ctx, principal)
}

// UpdatePhoto stores a URL handed back by the upload collaborator.
func (s *UserService) UpdatePhoto(ctx context.Context, principal string, in UpdatePhotoInput) (*models.UserDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, principal, map[string]interface{}{"image": in.URL}); err != nil {
		return nil, storeErr(err, "user")
	}
	return s.GetCurrent(ctx, principal)
}

// FinishOnboarding writes the onboarding form and marks the user onboarded.
// Running it again overwrites the profile and keeps the flag set.
func (s *UserService) FinishOnboarding(ctx context.Context, principal string, in FinishOnboardingInput) (*models.UserDTO, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":                in.Name,
		"email":               in.Email,
		"onboarding_complete": true,
	}
	if in.Bio != nil {
		updates["bio"] = nullable(*in.Bio)
	}
	if in.Location != nil {
		updates["location"] = nullable(*in.Location)
	}
	if in.PhotoURL != nil {
		updates["image"] = nullable(*in.PhotoURL)
	}
	if err := s.users.Update(ctx, principal, updates); err != nil {
		return nil, storeErr(err, "user")
	}

	logger.Info("onboarding finished", zap.String("user_id", principal))
	return s.GetCurrent(ctx, principal)
}

// Search matches name or email exactly, skipping the principal.
func (s *UserService) Search(ctx context.Context, principal, query string) ([]models.UserSummary, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fieldError("q", "is required")
	}

	users, err := s.users.Search(ctx, query, principal, searchLimit)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
