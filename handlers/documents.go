package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/internal/document"
	"github.com/TamerJohn/literate-spoon/internal/document/repository"
	"github.com/TamerJohn/literate-spoon/internal/document/service"
	"github.com/TamerJohn/literate-spoon/internal/render"
	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

// DocumentHandler serves the listing and the per-document pages.
type DocumentHandler struct {
	docs     *service.Service
	renderer *render.Renderer
}

func NewDocumentHandler(docs *service.Service, renderer *render.Renderer) *DocumentHandler {
	return &DocumentHandler{docs: docs, renderer: renderer}
}

// Register expects rg to be guarded by RequireSignIn.
func (h *DocumentHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/", h.Index)
	rg.GET("/new", h.NewForm)
	rg.POST("/new", h.Create)
	rg.GET("/:filename", h.Show)
	rg.GET("/:filename/edit", h.EditForm)
	rg.POST("/:filename/edit", h.Update)
	rg.POST("/:filename/delete", h.Delete)
}

func (h *DocumentHandler) Index(c *gin.Context) {
	files, err := h.docs.List(c.Request.Context())
	if err != nil {
		logger.Errorf("list documents: %v", err)
		sessions.Get(c).SetError("Sorry, the documents could not be listed right now.")
		renderPage(c, http.StatusInternalServerError, "index.tmpl", page{})
		return
	}
	renderPage(c, http.StatusOK, "index.tmpl", page{Files: files})
}

func (h *DocumentHandler) NewForm(c *gin.Context) {
	renderPage(c, http.StatusOK, "new.tmpl", page{Title: "New document"})
}

func (h *DocumentHandler) Create(c *gin.Context) {
	name := c.PostForm("file_name")
	sess := sessions.Get(c)

	err := h.docs.Create(c.Request.Context(), name)
	if err == nil {
		logger.Infof("document %q created by %s", name, sess.Username)
		sess.SetSuccess(fmt.Sprintf("%s has been created!", name))
		redirect(c, "/")
		return
	}

	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		sess.SetError(fmt.Sprintf("%s already exist!", name))
	case errors.Is(err, service.ErrEmptyName):
		sess.SetError("Sorry, you must enter a file name")
	case errors.Is(err, service.ErrUnsupportedExtension):
		sess.SetError("Sorry that extension is not supported yet!")
	case errors.Is(err, repository.ErrInvalidName):
		sess.SetError("Sorry, file names cannot contain path separators")
	case errors.Is(err, service.ErrHiddenName):
		sess.SetError("Sorry, file names cannot start with a dot")
	default:
		logger.Errorf("create document %q: %v", name, err)
		status = http.StatusInternalServerError
		sess.SetError(fmt.Sprintf("Sorry, %s could not be created.", name))
	}
	renderPage(c, status, "new.tmpl", page{Title: "New document", Name: name})
}

// load reads a document for Show and EditForm. On failure it has already
// set a flash and redirected.
func (h *DocumentHandler) load(c *gin.Context, name string) ([]byte, bool) {
	content, err := h.docs.Read(c.Request.Context(), name)
	if err == nil {
		return content, true
	}
	sess := sessions.Get(c)
	if errors.Is(err, repository.ErrNotFound) {
		sess.SetError(fmt.Sprintf("%s does not exist!", name))
	} else {
		logger.Errorf("read document %q: %v", name, err)
		sess.SetError(fmt.Sprintf("Sorry, %s could not be read.", name))
	}
	redirect(c, "/")
	return nil, false
}

// unsupported sets the format flash and redirects when err is a format error.
func unsupported(c *gin.Context, err error) bool {
	var uf *render.UnsupportedFormatError
	if !errors.As(err, &uf) {
		return false
	}
	sessions.Get(c).SetError(uf.Message())
	redirect(c, "/")
	return true
}

// Show serves the document itself: plain text as-is, markdown as HTML.
// Flashes stay pending for the next full page.
func (h *DocumentHandler) Show(c *gin.Context) {
	name := c.Param("filename")
	content, ok := h.load(c, name)
	if !ok {
		return
	}
	mime, body, err := h.renderer.ForDisplay(name, content)
	if err != nil {
		if unsupported(c, err) {
			return
		}
		logger.Errorf("render document %q: %v", name, err)
		c.String(http.StatusInternalServerError, "could not render %s", name)
		return
	}
	c.Data(http.StatusOK, mime, body)
}

func (h *DocumentHandler) EditForm(c *gin.Context) {
	name := c.Param("filename")
	content, ok := h.load(c, name)
	if !ok {
		return
	}
	raw, err := h.renderer.ForEdit(name, content)
	if err != nil {
		if !unsupported(c, err) {
			c.String(http.StatusInternalServerError, "could not load %s", name)
		}
		return
	}
	sessions.Get(c).SetSuccess(fmt.Sprintf("The %s has been edited!", name))
	renderPage(c, http.StatusOK, "edit.tmpl", page{
		Title:   "Edit " + name,
		Name:    name,
		Ext:     strings.TrimPrefix(document.FormatOf(name).Ext, "."),
		Content: string(raw),
	})
}

// Update replaces the content wholesale with the submitted form field.
func (h *DocumentHandler) Update(c *gin.Context) {
	name := c.Param("filename")
	sess := sessions.Get(c)
	if err := h.docs.Update(c.Request.Context(), name, []byte(c.PostForm("content"))); err != nil {
		logger.Errorf("update document %q: %v", name, err)
		sess.SetError(fmt.Sprintf("Sorry, %s could not be saved.", name))
		redirect(c, "/")
		return
	}
	logger.Infof("document %q updated by %s", name, sess.Username)
	sess.SetSuccess(fmt.Sprintf("The %s has been updated!", name))
	redirect(c, "/")
}

// Delete only acts when the form carries the "delete" field.
func (h *DocumentHandler) Delete(c *gin.Context) {
	name := c.Param("filename")
	if _, ok := c.GetPostForm("delete"); !ok {
		redirect(c, "/")
		return
	}
	sess := sessions.Get(c)
	err := h.docs.Delete(c.Request.Context(), name)
	switch {
	case err == nil:
		logger.Infof("document %q deleted by %s", name, sess.Username)
		sess.SetSuccess(fmt.Sprintf("The %s document has been deleted!", name))
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidName):
		sess.SetError(fmt.Sprintf("%s does not exist!", name))
	default:
		logger.Errorf("delete document %q: %v", name, err)
		sess.SetError(fmt.Sprintf("Sorry, %s could not be deleted.", name))
	}
	redirect(c, "/")
}
