package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"parking-slot-control/internal/jwt"
	"parking-slot-control/internal/parking"
	"parking-slot-control/internal/storage"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// Authenticate validates the Bearer token and stores the caller's identity on
// the request context for the handlers.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := jwt.DecodeAuthJWT(token)
		if err != nil {
			AbortWithError(c, jwt.ErrNonValidToken)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers before the handler runs. Handlers
// behind it still pass the actor down so the lifecycle checks hold on their
// own.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Role != storage.RoleAdmin {
			AbortWithError(c, parking.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetActor reads the authenticated identity set by Authenticate.
func GetActor(c *gin.Context) parking.Actor {
	actor := parking.Actor{}
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(int64); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(storage.Role); ok {
			actor.Role = role
		}
	}
	return actor
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
