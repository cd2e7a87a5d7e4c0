package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialnet-api/models"
	"socialnet-api/repositories"
	"socialnet-api/testutil"
)

type testEnv struct {
	db      *gorm.DB
	users   *UserService
	posts   *PostService
	likes   *LikeService
	follows *FollowService
	friends *FriendService
	mail    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, testutil.NewDB(t))
}

func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	mail := &recordingNotifier{sent: make(chan [2]string, 8)}

	return &testEnv{
		db:      db,
		users:   NewUserService(userRepo, followRepo),
		posts:   NewPostService(postRepo, likeRepo, userRepo, nil),
		likes:   NewLikeService(likeRepo, postRepo),
		follows: NewFollowService(followRepo, userRepo),
		friends: NewFriendService(friendRepo, userRepo, mail),
		mail:    mail,
	}
}

type recordingNotifier struct {
	sent chan [2]string
}

func (n *recordingNotifier) FriendRequestSent(sender, receiver *models.User) {
	n.sent <- [2]string{sender.ID, receiver.ID}
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	return verr.Fields
}

func TestStoreErr(t *testing.T) {
	require.NoError(t, storeErr(nil, "x"))
	require.ErrorIs(t, storeErr(gorm.ErrRecordNotFound, "x"), ErrNotFound)
	require.ErrorIs(t, storeErr(gorm.ErrDuplicatedKey, "x"), ErrConflict)
	require.ErrorIs(t, storeErr(context.DeadlineExceeded, "x"), ErrTransient)

	other := errors.New("boom")
	require.Equal(t, other, storeErr(other, "x"))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "is required", "bio": "too long"}}
	require.Equal(t, "validation failed: bio: too long; name: is required", err.Error())
	require.ErrorIs(t, err, ErrValidation)
	require.NotErrorIs(t, err, ErrConflict)
}

func TestCanceledContextIsTransient(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "alice", "Alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.users.GetProfile(ctx, "", "alice")
	require.ErrorIs(t, err, ErrTransient)
}

func TestProtectedOperationsRequirePrincipal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, "", CreatePostInput{Content: "hi"})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, env.likes.Like(ctx, "", 1), ErrUnauthorized)
	require.ErrorIs(t, env.likes.Unlike(ctx, "", 1), ErrUnauthorized)
	require.ErrorIs(t, env.follows.Follow(ctx, "", "bob"), ErrUnauthorized)
	_, err = env.friends.SendRequest(ctx, "", "bob")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.friends.Status(ctx, "", "bob")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.users.GetCurrent(ctx, "")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.users.FinishOnboarding(ctx, "", FinishOnboardingInput{Name: "Ann", Email: "ann@x.com"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestPageRequestOffset(t *testing.T) {
	require.Equal(t, 0, PageRequest{}.offset())
	require.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.offset())
	require.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.offset())
	require.Equal(t, 0, PageRequest{Page: 3}.offset())
}

func TestValidatorUsesJSONNames(t *testing.T) {
	fields := validationFields(t, validateStruct(CreatePostInput{Content: strings.Repeat("a", 281)}))
	require.Contains(t, fields, "content")

	fields = validationFields(t, validateStruct(FinishOnboardingInput{Name: "Al", Email: "nope"}))
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "email")
}
