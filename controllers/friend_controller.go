package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet-api/services"
	"socialnet-api/utils"
)

type FriendController struct {
	friends *services.FriendService
}

func NewFriendController(friends *services.FriendService) *FriendController {
	return &FriendController{friends: friends}
}

type SendFriendRequestRequest struct {
	ReceiverID string `json:"receiverId"`
}

func (fc *FriendController) SendFriendRequest(c *gin.Context) {
	var req SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	fr, err := fc.friends.SendRequest(c.Request.Context(), principal(c), req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Friend request sent successfully", fr)
}

func (fc *FriendController) AcceptFriendRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	friend, err := fc.friends.AcceptRequest(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Friend request accepted", friend)
}

func (fc *FriendController) DeclineFriendRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := fc.friends.DeclineRequest(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Friend request declined", nil)
}

func (fc *FriendController) GetPendingRequests(c *gin.Context) {
	reqs, err := fc.friends.PendingRequests(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, reqs, utils.Pagination{})
}

func (fc *FriendController) GetSentRequests(c *gin.Context) {
	reqs, err := fc.friends.SentRequests(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, reqs, utils.Pagination{})
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	friends, err := fc.friends.Friends(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, friends, utils.Pagination{})
}

func (fc *FriendController) RemoveFriend(c *gin.Context) {
	friendID, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := fc.friends.RemoveFriend(c.Request.Context(), principal(c), friendID); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Friend removed", nil)
}

func (fc *FriendController) GetFriendshipStatus(c *gin.Context) {
	target, ok := pathUserID(c)
	if !ok {
		return
	}
	status, err := fc.friends.Status(c.Request.Context(), principal(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
