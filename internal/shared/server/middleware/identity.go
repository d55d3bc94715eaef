package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Identity reads the verified user id forwarded by the auth gateway and
// stores it in the request context. Authentication itself happens upstream;
// this service only requires that an identity was established.
//
// Token-gated download routes are exempt: access there is decided by the
// download token, not by the caller's identity.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if strings.HasSuffix(c.Request.URL.Path, "/download") {
			c.Next()
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user id stored by Identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
