package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and the storage schema version.
func (api *API) Health(c *gin.Context) {
	msg := c.Query("ping")
	if msg == "" {
		msg = "pong"
	}

	version, err := api.storage.GetSchemaVersion(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": msg,
			"status":  "degraded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        msg,
		"status":         "ok",
		"schema_version": version,
	})
}
