package handler

import (
	"strconv"

	"bubble_server/middleware"
	"bubble_server/model"
	"bubble_server/service"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc *service.UserService
}

func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetMe returns the authenticated user's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	user, err := h.userSvc.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// UpdateMe patches the profile fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// GetAddressStatus reports whether the given anchor address may change.
func (h *UserHandler) GetAddressStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	addressType := model.AddressType(c.Param("type"))
	status, err := h.userSvc.GetAddressStatus(userID, addressType)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, status)
}

// UpdateAddress registers or changes an anchor address, subject to the lock.
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
		Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	addressType := model.AddressType(c.Param("type"))
	user, err := h.userSvc.UpdateAddress(userID, addressType, req.Latitude, req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "address updated successfully", user)
}

// CreateAddressChangeRequest files an exception request against the lock.
func (h *UserHandler) CreateAddressChangeRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var input service.AddressChangeRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req, err := h.userSvc.CreateAddressChangeRequest(userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "address change request submitted", req)
}

// ListAddressChangeRequests returns the caller's exception requests.
func (h *UserHandler) ListAddressChangeRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	reqs, err := h.userSvc.ListAddressChangeRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"requests": reqs})
}

// AddCustomLocation registers a custom zone.
func (h *UserHandler) AddCustomLocation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var input service.CustomLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.AddCustomLocation(userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "custom location added", user)
}

// UpdateCustomLocation patches the zone at the given index.
func (h *UserHandler) UpdateCustomLocation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequest(c, "invalid custom location index")
		return
	}

	var input service.CustomLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.UpdateCustomLocation(userID, index, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "custom location updated", user)
}

// DeleteCustomLocation removes the zone at the given index.
func (h *UserHandler) DeleteCustomLocation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequest(c, "invalid custom location index")
		return
	}

	user, err := h.userSvc.DeleteCustomLocation(userID, index)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "custom location deleted", user)
}
