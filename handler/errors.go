package handler

import (
	"bubble_server/service"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds onto HTTP statuses: permission
// failures are 403, validation failures 400, anything else is an
// infrastructure fault.
func respondError(c *gin.Context, err error) {
	switch {
	case service.IsPermission(err):
		utils.Forbidden(c, err.Error())
	case service.IsValidation(err):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
