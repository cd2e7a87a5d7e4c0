// File: /routes/routes.go
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"socialnet-api/config"
	"socialnet-api/controllers"
	"socialnet-api/middleware"
	"socialnet-api/services"
	"socialnet-api/storage"
)

// Deps is everything the route table needs from main.
type Deps struct {
	Config  *config.Config
	Users   *services.UserService
	Posts   *services.PostService
	Likes   *services.LikeService
	Follows *services.FollowService
	Friends *services.FriendService
	Photos  storage.PhotoStore
}

// NewRouter builds the engine with the global middleware chain.
func NewRouter(ctx context.Context, d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()

	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
		middleware.SecurityHeaders(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RateLimit(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)

	SetupRoutes(r, d)
	return r
}

func SetupRoutes(r *gin.Engine, d Deps) {
	auth := middleware.NewAuthenticator(d.Config.Auth.JWTSecret, d.Config.Auth.Issuer, d.Users)

	userController := controllers.NewUserController(d.Users, d.Follows)
	postController := controllers.NewPostController(d.Posts, d.Likes)
	friendController := controllers.NewFriendController(d.Friends)
	uploadController := controllers.NewUploadController(d.Photos, d.Config.Storage.MaxUploadBytes)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.ValidateJSON())

	// Public reads; a token, when present, personalises the result.
	public := v1.Group("/")
	public.Use(auth.Optional())
	{
		public.GET("/posts", postController.GetPosts)
		public.GET("/posts/latest", postController.GetLatestPost)
		public.GET("/posts/version", postController.GetFeedVersion)
		public.GET("/users/:id", userController.GetUser)
		public.GET("/users/:id/posts", postController.GetUserPosts)
		public.GET("/users/:id/followers", userController.GetFollowers)
		public.GET("/users/:id/following", userController.GetFollowing)
	}

	protected := v1.Group("/")
	protected.Use(auth.Required())
	{
		me := protected.Group("/users/me")
		{
			me.GET("", userController.GetMe)
			me.PATCH("", userController.UpdateMe)
			me.PUT("/photo", userController.UpdatePhoto)
			me.POST("/onboarding", userController.FinishOnboarding)
		}
		protected.GET("/users/search", userController.SearchUsers)
		protected.POST("/users/:id/follow", userController.FollowUser)
		protected.DELETE("/users/:id/follow", userController.UnfollowUser)

		posts := protected.Group("/posts")
		{
			posts.POST("", postController.CreatePost)
			posts.PUT("/:id", postController.UpdatePost)
			posts.DELETE("/:id", postController.DeletePost)
			posts.POST("/:id/like", postController.LikePost)
			posts.DELETE("/:id/like", postController.UnlikePost)
		}

		friends := protected.Group("/friends")
		{
			friends.GET("", friendController.GetFriends)
			friends.DELETE("/:id", friendController.RemoveFriend)
			friends.GET("/status/:id", friendController.GetFriendshipStatus)
			friends.POST("/requests", friendController.SendFriendRequest)
			friends.GET("/requests/pending", friendController.GetPendingRequests)
			friends.GET("/requests/sent", friendController.GetSentRequests)
			friends.POST("/requests/:id/accept", friendController.AcceptFriendRequest)
			friends.POST("/requests/:id/decline", friendController.DeclineFriendRequest)
		}

		protected.POST("/uploads/photo", uploadController.UploadPhoto)
	}
}
