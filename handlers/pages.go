package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates are addressed by file name, e.g. "index.tmpl".
func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// page is the data every template receives.
type page struct {
	Title    string
	Error    string
	Success  string
	Username string

	Files []string

	Name    string
	Ext     string
	Content string

	FormUsername string
}

// renderPage shows a full page. Pending flashes are moved into the page and
// cleared from the session before the response is written.
func renderPage(c *gin.Context, status int, name string, p page) {
	sess := sessions.Get(c)
	p.Error = sess.PopError()
	p.Success = sess.PopSuccess()
	p.Username = sess.Username
	saveSession(c)
	c.HTML(status, name, p)
}

// redirect persists the session and sends a 302.
func redirect(c *gin.Context, location string) {
	saveSession(c)
	c.Redirect(http.StatusFound, location)
}

func saveSession(c *gin.Context) {
	if err := sessions.Save(c); err != nil {
		logger.Errorf("save session: %v", err)
	}
}
