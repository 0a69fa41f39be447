package handler

import (
	"strconv"

	"bubble_server/middleware"
	"bubble_server/service"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	messageSvc *service.MessageService
}

func NewMessageHandler(messageSvc *service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendMessage creates a message in the hidden state.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messageSvc.SendMessage(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "message sent", msg)
}

// GetConversations lists the caller's conversations, most recent first.
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	convs, err := h.messageSvc.GetConversations(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"conversations": convs})
}

// GetConversationMessages pages through the conversation with one peer.
func (h *MessageHandler) GetConversationMessages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	peerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid peer id")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "invalid limit parameter")
			return
		}
	}

	var beforeID *uuid.UUID
	if raw := c.Query("before"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequest(c, "invalid before parameter")
			return
		}
		beforeID = &parsed
	}

	page, err := h.messageSvc.GetConversationMessages(userID, peerID, limit, beforeID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

type messageIDsRequest struct {
	MessageIDs []uuid.UUID `json:"message_ids" binding:"required"`
}

// RevealMessages flips hidden messages visible for the recipient.
func (h *MessageHandler) RevealMessages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req messageIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	revealed, err := h.messageSvc.RevealMessages(userID, req.MessageIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"revealed_count": revealed})
}

// MarkMessagesRead flags messages read and lowers unread counters.
func (h *MessageHandler) MarkMessagesRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req messageIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	marked, err := h.messageSvc.MarkMessagesRead(userID, req.MessageIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"read_count": marked})
}

// DeleteMessage removes a message the caller sent.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid message id")
		return
	}

	if err := h.messageSvc.DeleteMessage(userID, messageID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "message deleted", nil)
}

// GetUnreadCount returns the caller's total unread messages.
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	total, err := h.messageSvc.GetUnreadMessageCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"unread_count": total})
}
