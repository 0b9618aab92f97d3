package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/internal/users"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc *users.Service
}

func NewAuthHandler(u *users.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u}
}

// Register routes under /users
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/login", h.LoginForm)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	renderPage(c, http.StatusOK, "login.tmpl", page{Title: "Sign in"})
}

// Login checks the submitted credentials. Failures re-render the form with
// the username kept and a 401.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	sess := sessions.Get(c)

	ok, err := h.usersSvc.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		logger.Errorf("authenticate %q: %v", username, err)
		sess.SetError("Sorry, signing in is not possible right now.")
		renderPage(c, http.StatusInternalServerError, "login.tmpl", page{Title: "Sign in", FormUsername: username})
		return
	}
	if !ok {
		logger.Warnf("failed sign in for %q from %s", username, c.ClientIP())
		sess.SetError("Invalid credentials")
		renderPage(c, http.StatusUnauthorized, "login.tmpl", page{Title: "Sign in", FormUsername: username})
		return
	}

	logger.Infof("user %q signed in", username)
	sess.SignIn(username)
	sess.SetSuccess(fmt.Sprintf("Successfully logged in as %s", username))
	redirect(c, "/")
}

// Logout always lands on the login page; the message is only set when
// someone was actually signed in.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Get(c)
	if sess.IsAuthenticated() {
		logger.Infof("user %q signed out", sess.Username)
		sess.SignOut()
		sess.SetSuccess("You've been logged out")
	}
	redirect(c, LoginPath)
}
