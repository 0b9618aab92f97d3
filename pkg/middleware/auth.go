package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

const SignInRequired = "You must be signed in to do that."

// RequireSignIn lets signed-in sessions through. Anyone else gets an error
// flash and a 302 to loginPath; the handler chain is aborted so nothing is
// read or changed.
func RequireSignIn(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Get(c)
		if sess.IsAuthenticated() {
			c.Next()
			return
		}
		sess.SetError(SignInRequired)
		if err := sessions.Save(c); err != nil {
			logger.Errorf("save session: %v", err)
		}
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}
