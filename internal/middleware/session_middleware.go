package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the anonymous browsing session ID.
	SessionCookieName = "pd_session"
	SessionIDKey      = "session_id"

	// Anonymous sessions live for 30 days on the client.
	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// Session gives every visitor a browsing session. Anonymous requests get
// a uuid cookie on first contact; the ID is stored in the context either
// way so handlers can key Redis state without requiring a login.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(SessionCookieName, sid, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set(SessionIDKey, sid)
		c.Next()
	}
}

// GetSessionKey returns the Redis key prefix for the visitor's browsing
// session. A signed-in user keeps their session across devices, so the
// user ID wins over the cookie ID.
func GetSessionKey(c *gin.Context) (string, bool) {
	if userID, ok := GetUserID(c); ok {
		return fmt.Sprintf("user:%d", userID), true
	}
	if sid, ok := c.Get(SessionIDKey); ok {
		if s, isStr := sid.(string); isStr && s != "" {
			return "anon:" + s, true
		}
	}
	return "", false
}
