// File: /controllers/user_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet-api/services"
	"socialnet-api/utils"
)

type UserController struct {
	users   *services.UserService
	follows *services.FollowService
}

func NewUserController(users *services.UserService, follows *services.FollowService) *UserController {
	return &UserController{users: users, follows: follows}
}

func (uc *UserController) GetMe(c *gin.Context) {
	user, err := uc.users.GetCurrent(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	user, err := uc.users.Update(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdatePhoto(c *gin.Context) {
	var req services.UpdatePhotoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	user, err := uc.users.UpdatePhoto(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) FinishOnboarding(c *gin.Context) {
	var req services.FinishOnboardingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	user, err := uc.users.FinishOnboarding(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	users, err := uc.users.Search(c.Request.Context(), principal(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, users, utils.Pagination{})
}

// GetUser is public; the follow relation is filled in for signed-in viewers.
func (uc *UserController) GetUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	user, err := uc.users.GetProfile(c.Request.Context(), principal(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) FollowUser(c *gin.Context) {
	target, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := uc.follows.Follow(c.Request.Context(), principal(c), target); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Successfully followed user", nil)
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	target, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := uc.follows.Unfollow(c.Request.Context(), principal(c), target); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Successfully unfollowed user", nil)
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	p, page, ok := pagination(c)
	if !ok {
		return
	}
	users, err := uc.follows.GetFollowers(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, users, p)
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	p, page, ok := pagination(c)
	if !ok {
		return
	}
	users, err := uc.follows.GetFollowing(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, users, p)
}
