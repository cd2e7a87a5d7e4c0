package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"socialnet-api/models"
	"socialnet-api/repositories"
	"socialnet-api/testutil"
)

type countingPurger struct {
	calls   chan time.Time
	failing bool
}

func (p *countingPurger) PurgeDeclined(_ context.Context, before time.Time) (int64, error) {
	p.calls <- before
	if p.failing {
		return 0, errors.New("db down")
	}
	return 1, nil
}

func TestRequestCleanupJobRunsOnStart(t *testing.T) {
	p := &countingPurger{calls: make(chan time.Time, 4)}
	job := NewRequestCleanupJob(p, time.Hour, 24*time.Hour)
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	job.Start()
	select {
	case before := <-p.calls:
		require.Equal(t, fixed.Add(-24*time.Hour), before)
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not run on start")
	}
	job.Stop()
}

func TestRequestCleanupJobSurvivesErrors(t *testing.T) {
	p := &countingPurger{calls: make(chan time.Time, 16), failing: true}
	job := NewRequestCleanupJob(p, 10*time.Millisecond, time.Hour)

	job.Start()
	for i := 0; i < 2; i++ {
		select {
		case <-p.calls:
		case <-time.After(2 * time.Second):
			t.Fatal("cleanup stopped after a failure")
		}
	}
	job.Stop()
}

func TestRequestCleanupJobPurgesOldDeclined(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewFriendRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "alice", "Alice")
	testutil.CreateUser(t, db, "bob", "Bob")
	testutil.CreateUser(t, db, "carol", "Carol")

	old, err := repo.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, repo.DeclineRequest(ctx, old))
	require.NoError(t, db.Model(&models.FriendRequest{}).Where("id = ?", old.ID).
		UpdateColumn("updated_at", time.Now().Add(-60*24*time.Hour)).Error)

	recent, err := repo.CreateRequest(ctx, "carol", "bob")
	require.NoError(t, err)
	require.NoError(t, repo.DeclineRequest(ctx, recent))

	pending, err := repo.CreateRequest(ctx, "alice", "carol")
	require.NoError(t, err)

	job := NewRequestCleanupJob(repo, time.Hour, 30*24*time.Hour)
	job.cleanup()

	var ids []uint
	require.NoError(t, db.Model(&models.FriendRequest{}).Order("id").Pluck("id", &ids).Error)
	require.Equal(t, []uint{recent.ID, pending.ID}, ids)
}

func TestRequestCleanupJobPurgesOrphanLikes(t *testing.T) {
	db := testutil.NewDB(t)
	friends := repositories.NewFriendRepository(db)
	likes := repositories.NewLikeRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "alice", "Alice")
	post := testutil.CreatePost(t, db, "alice", "hello")

	require.NoError(t, likes.Create(ctx, post.ID, "alice"))
	// A like whose post is already gone.
	require.NoError(t, likes.Create(ctx, post.ID+100, "alice"))

	job := NewRequestCleanupJob(friends, time.Hour, 30*24*time.Hour).WithOrphanLikes(likes)
	job.cleanup()

	var postIDs []uint
	require.NoError(t, db.Model(&models.Like{}).Pluck("post_id", &postIDs).Error)
	require.Equal(t, []uint{post.ID}, postIDs)
}
