package handler

import (
	"strconv"

	"bubble_server/middleware"
	"bubble_server/service"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifSvc *service.NotificationService
}

func NewNotificationHandler(notifSvc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc}
}

// GetNotifications lists the caller's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	notifs, err := h.notifSvc.GetNotifications(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"notifications": notifs})
}

// MarkAllRead marks every notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.notifSvc.MarkAllRead(userID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "notifications marked read", nil)
}
