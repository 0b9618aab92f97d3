package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/internal/document/service"
	"github.com/TamerJohn/literate-spoon/internal/render"
	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/internal/users"
	"github.com/TamerJohn/literate-spoon/pkg/middleware"
)

const LoginPath = "/users/login"

type Options struct {
	Documents *service.Service
	Renderer  *render.Renderer
	Users     *users.Service
	Sessions  sessions.Store
}

// NewRouter builds the CMS engine. mw runs after the session is loaded and
// before any route, so rate limiters can key on the signed-in user.
func NewRouter(opts Options, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(loadTemplates())
	r.Use(sessions.Middleware(opts.Sessions))
	r.Use(mw...)

	NewAuthHandler(opts.Users).Register(r.Group("/users"))
	NewDocumentHandler(opts.Documents, opts.Renderer).Register(r.Group("/", middleware.RequireSignIn(LoginPath)))
	RegisterSwagger(r)
	return r
}
