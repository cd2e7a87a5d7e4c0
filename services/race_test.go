package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialnet-api/testutil"
)

// runConcurrently starts n calls of fn together and collects their errors.
func runConcurrently(n int, fn func() error) []error {
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func requireOneWinner(t *testing.T, errs []error) {
	t.Helper()
	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, len(errs)-1, conflicts)
}

func TestConcurrentFollowHasOneWinner(t *testing.T) {
	env := newTestEnvWithDB(t, testutil.NewFileDB(t, 4))
	testutil.CreateUser(t, env.db, "alice", "Alice")
	testutil.CreateUser(t, env.db, "bob", "Bob")

	errs := runConcurrently(6, func() error {
		return env.follows.Follow(context.Background(), "alice", "bob")
	})
	requireOneWinner(t, errs)

	var edges int64
	require.NoError(t, env.db.Table("follows").Count(&edges).Error)
	require.Equal(t, int64(1), edges)
}

func TestConcurrentLikeHasOneWinner(t *testing.T) {
	env := newTestEnvWithDB(t, testutil.NewFileDB(t, 4))
	testutil.CreateUser(t, env.db, "alice", "Alice")
	post := testutil.CreatePost(t, env.db, "alice", "hello")

	errs := runConcurrently(6, func() error {
		return env.likes.Like(context.Background(), "alice", post.ID)
	})
	requireOneWinner(t, errs)
}

// A like that lands between the existence check and the insert is reported
// by the primary key as a Conflict.
func TestLikeLosingInsertIsConflict(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "alice", "Alice")
	post := testutil.CreatePost(t, env.db, "alice", "hello")

	var once sync.Once
	require.NoError(t, env.db.Callback().Query().After("gorm:query").Register("test:sneak_like", func(tx *gorm.DB) {
		if tx.Statement.Table != "likes" {
			return
		}
		once.Do(func() {
			err := tx.Session(&gorm.Session{NewDB: true}).WithContext(context.Background()).
				Exec("INSERT INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)", post.ID, "alice", time.Now()).Error
			require.NoError(t, err)
		})
	}))

	err := env.likes.Like(context.Background(), "alice", post.ID)
	require.ErrorIs(t, err, ErrConflict)
}

// Same for a follow edge created behind the service's back.
func TestFollowLosingInsertIsConflict(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "alice", "Alice")
	testutil.CreateUser(t, env.db, "bob", "Bob")

	var once sync.Once
	require.NoError(t, env.db.Callback().Query().After("gorm:query").Register("test:sneak_follow", func(tx *gorm.DB) {
		if tx.Statement.Table != "follows" {
			return
		}
		once.Do(func() {
			err := tx.Session(&gorm.Session{NewDB: true}).WithContext(context.Background()).
				Exec("INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)", "alice", "bob", time.Now()).Error
			require.NoError(t, err)
		})
	}))

	err := env.follows.Follow(context.Background(), "alice", "bob")
	require.ErrorIs(t, err, ErrConflict)
}
