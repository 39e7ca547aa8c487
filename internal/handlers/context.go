package handlers

import (
	"net/http"

	"associa_backend/internal/middleware"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// organizationID returns the tenant of the authenticated caller. AuthMiddleware
// always sets it on protected routes, so a missing value is a wiring bug.
func organizationID(c *gin.Context) int64 {
	return c.GetInt64(middleware.ContextOrganizationID)
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(middleware.ContextUserID)
}

// parseIDParam reads a positive integer path parameter, responding 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	idStr := c.Param(name)
	id, err := utils.StrToInt64(idStr)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "ID inválido.", "invalid "+name+": "+idStr))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}, handler string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogError(err, handler+": Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return false
	}
	return true
}

func respondNotFound(c *gin.Context, message string, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, message, err.Error()))
}

func respondConflict(c *gin.Context, message string, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, message, err.Error()))
}

func respondBadRequest(c *gin.Context, message string, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, message, err.Error()))
}
