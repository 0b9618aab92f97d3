package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/internal/sessions"
)

// limiterKey prefers the signed-in username so users behind one NAT do not
// share a bucket, and falls back to the client IP.
func limiterKey(c *gin.Context) string {
	if s, ok := sessions.Lookup(c); ok && s.IsAuthenticated() {
		return "user:" + s.Username
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
