package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionHeader     = "X-Session-ID"
	sessionContextKey = "session_id"
)

// sessionMiddleware resolves the caller's session ID from X-Session-ID,
// minting a new one when the header is absent or malformed. The ID is echoed
// back so clients can keep it for later requests.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(sessionHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(sessionContextKey, id)
		c.Header(sessionHeader, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
