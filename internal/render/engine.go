// Package render turns content records into HTML pages.
//
// Templates are embedded at build time. Each page is parsed together with
// layout.html, which wraps it; a page fills the "title" and "content" blocks.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/sakif/folio/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Render and RenderTo.
const (
	PageIndex  = "index"
	PageEditor = "editor"
)

// KindPage is the page name that renders a template of kind.
func KindPage(kind model.Kind) string {
	return string(kind)
}

// Engine holds the parsed page templates.
type Engine struct {
	pages    map[string]*template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New parses every embedded page.
func New() (*Engine, error) {
	e := &Engine{
		pages: make(map[string]*template.Template),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}

	names := []string{PageIndex, PageEditor}
	for _, kind := range model.Kinds() {
		names = append(names, KindPage(kind))
	}

	funcs := e.funcs()
	for _, name := range names {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("render: parsing %s: %w", name, err)
		}
		e.pages[name] = t
	}
	return e, nil
}

// Has reports whether page exists.
func (e *Engine) Has(page string) bool {
	_, ok := e.pages[page]
	return ok
}

// Render writes page as an HTML response. The page is rendered into a buffer
// first so a template error never leaves a half-written 200 behind.
func (e *Engine) Render(w http.ResponseWriter, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := e.RenderTo(&buf, page, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderTo writes page to any writer, e.g. a file during export.
func (e *Engine) RenderTo(w io.Writer, page string, data any) error {
	t, ok := e.pages[page]
	if !ok {
		return fmt.Errorf("render: page %q not found", page)
	}
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		return fmt.Errorf("render: executing %s: %w", page, err)
	}
	return nil
}

func (e *Engine) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown":  e.renderMarkdown,
		"join":      strings.Join,
		"kindTitle": func(k model.Kind) string { return k.DisplayName() },
		"field": func(section string, i int, name string) string {
			return fmt.Sprintf("%s.%d.%s", section, i, name)
		},
		"hasText": func(s string) bool { return strings.TrimSpace(s) != "" },
	}
}

// renderMarkdown converts user-written markdown to HTML. Stored content is
// not validated, so the output goes through the sanitiser before it is
// trusted as HTML.
func (e *Engine) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := e.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(e.policy.SanitizeBytes(buf.Bytes()))
}
