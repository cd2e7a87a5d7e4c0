package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialnet-api/database"
	"socialnet-api/models"
	"socialnet-api/testutil"
)

func seedUsers(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		testutil.CreateUser(t, db, id, id)
	}
}

func TestFollowRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob", "carol")

	require.NoError(t, repo.Create(ctx, "alice", "bob"))
	require.NoError(t, repo.Create(ctx, "carol", "bob"))
	require.NoError(t, repo.Create(ctx, "bob", "alice"))
	require.True(t, database.IsUniqueViolation(repo.Create(ctx, "alice", "bob")))

	followers, err := repo.CountFollowers(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(2), followers)

	following, err := repo.CountFollowing(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(1), following)

	users, err := repo.ListFollowers(ctx, "bob", 0, 0)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice", "carol"}, []string{users[0].ID, users[1].ID})

	users, err = repo.ListFollowers(ctx, "bob", 0, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, err = repo.ListFollowing(ctx, "bob", 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "alice", users[0].ID)

	require.NoError(t, repo.Delete(ctx, "alice", "bob"))
	require.NoError(t, repo.Delete(ctx, "alice", "bob"))
	ok, err := repo.Exists(ctx, "alice", "bob")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFriendRepositoryAccept(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob")

	req, err := repo.CreateRequest(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, models.FriendRequestStatusPending, req.Status)

	_, err = repo.CreateRequest(ctx, "bob", "alice")
	require.True(t, database.IsUniqueViolation(err))

	// The reverse direction is a different ordered pair.
	reverse, err := repo.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	f, err := repo.AcceptRequest(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "alice", f.User1ID)
	require.Equal(t, "bob", f.User2ID)
	require.False(t, f.CreatedAt.IsZero())

	ok, err := repo.AreFriends(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, ok)

	var stored models.FriendRequest
	require.NoError(t, db.First(&stored, reverse.ID).Error)
	require.Equal(t, models.FriendRequestStatusAccepted, stored.Status)
	require.Nil(t, stored.PendingKey)

	_, err = repo.AcceptRequest(ctx, req)
	require.True(t, errors.Is(err, ErrRequestNotPending))

	// Once resolved, a fresh request for the same pair is allowed.
	_, err = repo.CreateRequest(ctx, "bob", "alice")
	require.NoError(t, err)
}

func TestFriendRepositoryDeclineAndPurge(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob")

	req, err := repo.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = repo.FindPendingForReceiver(ctx, req.ID, "alice")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	found, err := repo.FindPendingForReceiver(ctx, req.ID, "bob")
	require.NoError(t, err)
	require.NoError(t, repo.DeclineRequest(ctx, found))
	require.True(t, errors.Is(repo.DeclineRequest(ctx, found), ErrRequestNotPending))

	n, err := repo.PurgeDeclined(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	require.NoError(t, db.Model(&models.FriendRequest{}).
		Where("id = ?", req.ID).
		UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error)

	n, err = repo.PurgeDeclined(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestFriendRepositoryListings(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob", "carol", "dave")

	_, err := repo.CreateRequest(ctx, "bob", "alice")
	require.NoError(t, err)
	_, err = repo.CreateRequest(ctx, "alice", "carol")
	require.NoError(t, err)
	require.NoError(t, db.Create(models.NewFriendship("dave", "alice")).Error)

	received, err := repo.ListPendingReceived(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, "bob", received[0].Sender.ID)

	sent, err := repo.ListPendingSent(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, "carol", sent[0].Receiver.ID)

	friends, err := repo.ListFriendships(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, "dave", friends[0].Other("alice"))
	require.NotNil(t, friends[0].User1)
	require.NotNil(t, friends[0].User2)

	require.NoError(t, repo.DeleteFriendship(ctx, "dave", "alice"))
	require.NoError(t, repo.DeleteFriendship(ctx, "alice", "dave"))
	_, err = repo.FindFriendship(ctx, "alice", "dave")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob")

	require.NoError(t, repo.Provision(ctx, &models.User{ID: "alice", Name: "Other"}))
	u, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Name)

	require.NoError(t, repo.Update(ctx, "alice", map[string]interface{}{"name": "Alice A"}))
	err = repo.Update(ctx, "ghost", map[string]interface{}{"name": "x"})
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	users, err := repo.Search(ctx, "bob@example.com", "alice", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, err = repo.Search(ctx, "Alice A", "alice", 10)
	require.NoError(t, err)
	require.Empty(t, users)

	exists, err := repo.Exists(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestPendingRequestsWithColonIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "a:b", "c", "a", "b:c")

	_, err := repo.CreateRequest(ctx, "a:b", "c")
	require.NoError(t, err)
	_, err = repo.CreateRequest(ctx, "a", "b:c")
	require.NoError(t, err)

	_, err = repo.FindPendingRequest(ctx, "a", "b:c")
	require.NoError(t, err)
	_, err = repo.CreateRequest(ctx, "a", "b:c")
	require.True(t, database.IsUniqueViolation(err))
}

func TestAcceptRequestRollsBackWhenFriendshipFails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob")

	req, err := repo.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	reverse, err := repo.CreateRequest(ctx, "bob", "alice")
	require.NoError(t, err)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:refuse_friendship", func(tx *gorm.DB) {
		if tx.Statement.Table == "friendships" {
			_ = tx.AddError(errors.New("friendship insert refused"))
		}
	}))

	_, err = repo.AcceptRequest(ctx, req)
	require.Error(t, err)

	for _, r := range []*models.FriendRequest{req, reverse} {
		var stored models.FriendRequest
		require.NoError(t, db.First(&stored, r.ID).Error)
		require.Equal(t, models.FriendRequestStatusPending, stored.Status)
		require.NotNil(t, stored.PendingKey)
		require.Equal(t, *models.PendingKeyFor(r.SenderID, r.ReceiverID), *stored.PendingKey)
	}

	ok, err := repo.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAcceptRequestMixedCaseIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "a1", "B1")

	req, err := repo.CreateRequest(ctx, "a1", "B1")
	require.NoError(t, err)
	f, err := repo.AcceptRequest(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "B1", f.User1ID)
	require.Equal(t, "a1", f.User2ID)

	ok, err := repo.AreFriends(ctx, "a1", "B1")
	require.NoError(t, err)
	require.True(t, ok)
}
