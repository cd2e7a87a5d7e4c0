// File: /controllers/post_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet-api/services"
	"socialnet-api/utils"
)

type PostController struct {
	posts *services.PostService
	likes *services.LikeService
}

func NewPostController(posts *services.PostService, likes *services.LikeService) *PostController {
	return &PostController{posts: posts, likes: likes}
}

type PostContentRequest struct {
	Content string `json:"content"`
}

func (pc *PostController) GetPosts(c *gin.Context) {
	_, page, ok := pagination(c)
	if !ok {
		return
	}
	feed, err := pc.posts.List(c.Request.Context(), principal(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (pc *PostController) GetUserPosts(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	_, page, ok := pagination(c)
	if !ok {
		return
	}
	feed, err := pc.posts.ListByUser(c.Request.Context(), principal(c), userID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (pc *PostController) GetLatestPost(c *gin.Context) {
	post, err := pc.posts.Latest(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetFeedVersion lets clients poll for changes made in other sessions.
func (pc *PostController) GetFeedVersion(c *gin.Context) {
	v, err := pc.posts.FeedVersion(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": v})
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req PostContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	post, err := pc.posts.Create(c.Request.Context(), principal(c), services.CreatePostInput{Content: req.Content})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PostContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	post, err := pc.posts.Update(c.Request.Context(), principal(c), id, services.UpdatePostInput{Content: req.Content})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := pc.posts.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Post deleted successfully", nil)
}

func (pc *PostController) LikePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := pc.likes.Like(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Post liked", nil)
}

func (pc *PostController) UnlikePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := pc.likes.Unlike(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Post unliked", nil)
}
