package document

import "path/filepath"

// Document is a named flat file managed by the CMS. The name is the file
// name inside the store and is unique there.
type Document struct {
	Name    string `json:"name" bson:"name"`
	Content []byte `json:"content,omitempty" bson:"content"`
}

// Kind is the closed set of formats the CMS knows how to show.
type Kind int

const (
	Unsupported Kind = iota
	PlainText
	Markdown
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "plaintext"
	case Markdown:
		return "markdown"
	}
	return "unsupported"
}

// Format is the variant selected for a document from its extension.
// Ext keeps the leading dot (".md") and is set for every kind.
type Format struct {
	Kind Kind
	Ext  string
}

// FormatOf picks the format for name. Matching is case-sensitive.
func FormatOf(name string) Format {
	ext := filepath.Ext(name)
	switch ext {
	case ".txt":
		return Format{Kind: PlainText, Ext: ext}
	case ".md":
		return Format{Kind: Markdown, Ext: ext}
	}
	return Format{Kind: Unsupported, Ext: ext}
}

// Supported reports whether documents of this format can be created,
// displayed and edited.
func (f Format) Supported() bool { return f.Kind != Unsupported }

// ContentType is the MIME type used when the raw source is stored in an
// object store.
func (f Format) ContentType() string {
	switch f.Kind {
	case PlainText:
		return "text/plain; charset=utf-8"
	case Markdown:
		return "text/markdown; charset=utf-8"
	}
	return "application/octet-stream"
}
