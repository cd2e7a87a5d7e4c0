package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialnet-api/logger"
)

const (
	FeedVersionKey = "feed:version"
	FeedChannel    = "feed:events"
)

type FeedAction string

const (
	FeedPostCreated FeedAction = "post_created"
	FeedPostUpdated FeedAction = "post_updated"
	FeedPostDeleted FeedAction = "post_deleted"
)

type FeedEvent struct {
	Action  FeedAction `json:"action"`
	PostID  uint       `json:"post_id"`
	UserID  string     `json:"user_id"`
	Version int64      `json:"version"`
	At      time.Time  `json:"at"`
}

// FeedNotifier tells other sessions the feed changed so they can refresh.
type FeedNotifier interface {
	Notify(ctx context.Context, action FeedAction, postID uint, userID string)
	Version(ctx context.Context) (int64, error)
}

type NoopFeedNotifier struct{}

func (NoopFeedNotifier) Notify(context.Context, FeedAction, uint, string) {}

func (NoopFeedNotifier) Version(context.Context) (int64, error) { return 0, nil }

// RedisFeedNotifier bumps a version counter and publishes the event.
type RedisFeedNotifier struct {
	client *redis.Client
}

func NewRedisFeedNotifier(client *redis.Client) *RedisFeedNotifier {
	return &RedisFeedNotifier{client: client}
}

// Notify never fails the caller; the post write has already happened.
func (n *RedisFeedNotifier) Notify(ctx context.Context, action FeedAction, postID uint, userID string) {
	version, err := n.client.Incr(ctx, FeedVersionKey).Result()
	if err != nil {
		logger.Warn("feed version bump failed", zap.Error(err), zap.Uint("post_id", postID))
		return
	}

	payload, err := json.Marshal(FeedEvent{
		Action:  action,
		PostID:  postID,
		UserID:  userID,
		Version: version,
		At:      time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("feed event encode failed", zap.Error(err))
		return
	}
	if err := n.client.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		logger.Warn("feed event publish failed", zap.Error(err), zap.Uint("post_id", postID))
	}
}

func (n *RedisFeedNotifier) Version(ctx context.Context) (int64, error) {
	v, err := n.client.Get(ctx, FeedVersionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr(err, "feed version")
	}
	return v, nil
}
