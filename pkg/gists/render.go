package gists

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Sternrassler/gistview/pkg/client"
)

//go:embed templates/page.html
var templateFS embed.FS

// Page is everything the listing template renders.
type Page struct {
	PageContext

	Status  int
	Message string
	Gists   []client.Gist
}

// textEscaper escapes what is unsafe in HTML element content. Quotes are
// left alone so messages such as "User 'x' not found." read verbatim.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Heading returns the status message for the page's <h1>.
func (p Page) Heading() template.HTML {
	return template.HTML(textEscaper.Replace(p.Message))
}

// PrevURL links to the previous page.
func (p Page) PrevURL() string {
	return PageURL(p.User, p.PrevPage, p.PerPage)
}

// NextURL links to the next page.
func (p Page) NextURL() string {
	return PageURL(p.User, p.NextPage, p.PerPage)
}

// Renderer renders listing pages as HTML.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNewRenderer is like NewRenderer but panics on error.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page to w.
func (r *Renderer) Render(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "page.html", page)
}
