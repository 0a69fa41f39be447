package handler

import (
	"strconv"

	"bubble_server/middleware"
	"bubble_server/service"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LocationHandler struct {
	locationSvc *service.LocationService
}

func NewLocationHandler(locationSvc *service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// UpdateLocation ingests a raw device fix and returns the resolved status.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req service.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.locationSvc.UpdateLocation(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, resp)
}

// GetCurrentLocation returns the caller's current resolved status.
func (h *LocationHandler) GetCurrentLocation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	view, err := h.locationSvc.GetCurrentLocation(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if view == nil {
		utils.NotFound(c, "no location reported yet")
		return
	}
	utils.SuccessResponse(c, view)
}

// GetLocationHistory returns the caller's status history for the last N days.
func (h *LocationHandler) GetLocationHistory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "invalid days parameter")
			return
		}
		days = parsed
	}

	items, err := h.locationSvc.GetLocationHistory(userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"history": items})
}

// GetFriendLocation returns a friend's current status, trust-gated.
func (h *LocationHandler) GetFriendLocation(c *gin.Context) {
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

	view, err := h.locationSvc.GetFriendLocation(userID, friendID)
	if err != nil {
		respondError(c, err)
		return
	}
	if view == nil {
		utils.NotFound(c, "friend has not reported a location yet")
		return
	}
	utils.SuccessResponse(c, view)
}
