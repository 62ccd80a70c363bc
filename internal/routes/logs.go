package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLogs pages through the audit trail. Admin only.
func (api *API) ListLogs(c *gin.Context) {
	page, limit, search := pageParams(c)

	result, err := api.service.ListLogs(c.Request.Context(), GetActor(c), page, limit, search)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListUsers pages through registered users. Admin only.
func (api *API) ListUsers(c *gin.Context) {
	page, limit, search := pageParams(c)

	result, err := api.service.ListUsers(c.Request.Context(), GetActor(c), page, limit, search)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
