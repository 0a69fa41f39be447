package handler

import (
	"bubble_server/middleware"
	"bubble_server/service"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FriendHandler struct {
	friendSvc *service.FriendService
}

func NewFriendHandler(friendSvc *service.FriendService) *FriendHandler {
	return &FriendHandler{friendSvc: friendSvc}
}

// SendRequest creates a pending friend request.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		ToUserID uuid.UUID `json:"to_user_id" binding:"required"`
		Message  *string   `json:"message,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	request, err := h.friendSvc.SendFriendRequest(userID, req.ToUserID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friend request sent", request)
}

// GetReceivedRequests lists requests addressed to the caller.
func (h *FriendHandler) GetReceivedRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requests, err := h.friendSvc.GetReceivedRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"requests": requests})
}

// GetSentRequests lists requests the caller sent.
func (h *FriendHandler) GetSentRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requests, err := h.friendSvc.GetSentRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"requests": requests})
}

// AcceptRequest accepts a pending request addressed to the caller.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid request id")
		return
	}

	friendship, err := h.friendSvc.AcceptFriendRequest(userID, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friend request accepted", friendship)
}

// RejectRequest rejects a pending request addressed to the caller.
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid request id")
		return
	}

	if err := h.friendSvc.RejectFriendRequest(userID, requestID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friend request rejected", nil)
}

// GetFriends lists the caller's active friendships.
func (h *FriendHandler) GetFriends(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	friends, err := h.friendSvc.GetFriends(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"friends": friends})
}

// UpdateFriendship changes the caller's trust level or nickname for a friend.
func (h *FriendHandler) UpdateFriendship(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	friendID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid friend id")
		return
	}

	var req struct {
		TrustLevel *int    `json:"trust_level,omitempty"`
		Nickname   *string `json:"nickname,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	friendship, err := h.friendSvc.UpdateFriendship(userID, friendID, req.TrustLevel, req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friendship updated", friendship)
}

// RemoveFriend deletes the friendship in both directions.
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	friendID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid friend id")
		return
	}

	if err := h.friendSvc.RemoveFriend(userID, friendID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friend removed", nil)
}

// BlockUser marks the caller's edge toward the target as blocked.
func (h *FriendHandler) BlockUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		TargetUserID uuid.UUID `json:"target_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if userID == req.TargetUserID {
		utils.BadRequest(c, "cannot block yourself")
		return
	}

	if err := h.friendSvc.BlockUser(userID, req.TargetUserID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "user blocked successfully", nil)
}
