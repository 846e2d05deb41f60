package controllers

import (
	"strconv"

	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user out of the gin context. Sends the
// error response itself; callers just return on !ok.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}

// paginationParams reads page/limit query params with the usual bounds
func paginationParams(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.DefaultPaginationLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > utils.MaxPaginationLimit {
		limit = utils.DefaultPaginationLimit
	}
	offset = (page - 1) * limit
	return page, limit, offset
}
