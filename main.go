// File: /main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialnet-api/config"
	"socialnet-api/database"
	"socialnet-api/jobs"
	"socialnet-api/logger"
	"socialnet-api/repositories"
	"socialnet-api/routes"
	"socialnet-api/services"
	"socialnet-api/storage"
	"socialnet-api/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatal("Failed to initialise logger: ", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Warn("sentry disabled", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("Failed to initialise tracing", zap.Error(err))
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	if cfg.Database.Seed {
		if err := database.SeedData(db); err != nil {
			logger.Warn("Failed to seed database", zap.Error(err))
		}
	}

	var feed services.FeedNotifier = services.NoopFeedNotifier{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, feed notifications will fail", zap.Error(err))
		}
		feed = services.NewRedisFeedNotifier(rdb)
	}

	var photos storage.PhotoStore
	if cfg.Storage.Enabled {
		store, err := storage.NewMinioPhotoStore(cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to create photo store", zap.Error(err))
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("photo bucket check failed", zap.Error(err))
		}
		photos = store
	}

	var mailer services.FriendRequestNotifier
	if cfg.SMTP.Enabled {
		mailer = services.NewEmailService(cfg.SMTP)
	}

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	friendRepo := repositories.NewFriendRepository(db)

	cleanup := jobs.NewRequestCleanupJob(friendRepo, cfg.Jobs.RequestCleanupInterval, cfg.Jobs.DeclinedRequestRetention).
		WithOrphanLikes(likeRepo)
	cleanup.Start()

	gin.SetMode(cfg.Server.Mode)
	router := routes.NewRouter(ctx, routes.Deps{
		Config:  cfg,
		Users:   services.NewUserService(userRepo, followRepo),
		Posts:   services.NewPostService(postRepo, likeRepo, userRepo, feed),
		Likes:   services.NewLikeService(likeRepo, postRepo),
		Follows: services.NewFollowService(followRepo, userRepo),
		Friends: services.NewFriendService(friendRepo, userRepo, mailer),
		Photos:  photos,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting API server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	cleanup.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
