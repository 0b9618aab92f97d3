package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/TamerJohn/literate-spoon/internal/document"
)

const (
	MimePlainText = "text/plain"
	MimeHTML      = "text/html; charset=utf-8"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// UnsupportedFormatError carries the extension that could not be handled.
// It matches ErrUnsupportedFormat with errors.Is.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q", e.Ext)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// Message is the text shown to the user in the error flash.
func (e *UnsupportedFormatError) Message() string {
	return fmt.Sprintf("Sorry, the %s file format is not supported yet, check back again soon!", e.Ext)
}

// Renderer turns stored document bytes into what the browser gets.
// A single instance is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a renderer with GFM, linkify and task lists enabled. Raw HTML
// embedded in markdown is omitted from the output.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		)),
	}
}

// ForDisplay returns the content type and body to serve when a document is viewed.
func (r *Renderer) ForDisplay(name string, content []byte) (string, []byte, error) {
	f := document.FormatOf(name)
	switch f.Kind {
	case document.PlainText:
		return MimePlainText, content, nil
	case document.Markdown:
		var buf bytes.Buffer
		if err := r.md.Convert(content, &buf); err != nil {
			return "", nil, fmt.Errorf("markdown render %s: %w", name, err)
		}
		return MimeHTML, buf.Bytes(), nil
	}
	return "", nil, &UnsupportedFormatError{Ext: f.Ext}
}

// ForEdit returns the raw source used to fill the edit form.
func (r *Renderer) ForEdit(name string, content []byte) ([]byte, error) {
	f := document.FormatOf(name)
	if !f.Supported() {
		return nil, &UnsupportedFormatError{Ext: f.Ext}
	}
	return content, nil
}
