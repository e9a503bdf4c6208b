// Package export writes every template page, plus the index, as static HTML
// so the result can be served from any file host.
//
// Layout:
//
//	<dir>/index.html
//	<dir>/<kind>/index.html
//
// Links between pages are relative and the edit links are left out.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/render"
	"github.com/sakif/folio/internal/service"
)

// Content is where exported pages get their records from.
type Content interface {
	Overview(ctx context.Context) ([]service.Status, error)
	Load(ctx context.Context, kind model.Kind) (*model.Content, service.Source, error)
}

// Renderer executes a named page template.
type Renderer interface {
	RenderTo(w io.Writer, page string, data any) error
}

// Exporter renders pages to disk.
type Exporter struct {
	content  Content
	renderer Renderer
	logger   *slog.Logger
}

// New creates an Exporter.
func New(content Content, renderer Renderer, logger *slog.Logger) *Exporter {
	return &Exporter{content: content, renderer: renderer, logger: logger}
}

// Result lists what an export produced.
type Result struct {
	Dir   string
	Files []string // relative to Dir
}

// Export removes dir and writes a fresh copy of every page into it.
func (e *Exporter) Export(ctx context.Context, dir string) (*Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("export: resolving %s: %w", dir, err)
	}
	if err := checkTarget(abs); err != nil {
		return nil, err
	}

	statuses, err := e.content.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	// Render everything before touching the disk so a failure leaves the
	// previous export in place.
	pages := make(map[string][]byte, len(statuses)+1)
	order := make([]string, 0, len(statuses)+1)

	index := render.IndexPage{Rows: make([]render.IndexRow, 0, len(statuses))}
	for _, st := range statuses {
		index.Rows = append(index.Rows, render.IndexRow{
			Kind:      st.Kind,
			Source:    string(st.Source),
			UpdatedAt: st.UpdatedAt,
			URL:       string(st.Kind) + "/index.html",
		})
	}
	html, err := e.render(render.PageIndex, index)
	if err != nil {
		return nil, err
	}
	pages["index.html"] = html
	order = append(order, "index.html")

	for _, st := range statuses {
		content, source, err := e.content.Load(ctx, st.Kind)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		html, err := e.render(render.KindPage(st.Kind), render.TemplatePage{
			Kind:    st.Kind,
			Content: content,
			Source:  string(source),
			Links:   render.Links{Home: "../index.html"},
		})
		if err != nil {
			return nil, err
		}
		name := filepath.Join(string(st.Kind), "index.html")
		pages[name] = html
		order = append(order, name)
	}

	if err := os.RemoveAll(abs); err != nil {
		return nil, fmt.Errorf("export: cleaning %s: %w", abs, err)
	}
	for _, name := range order {
		path := filepath.Join(abs, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		if err := os.WriteFile(path, pages[name], 0o644); err != nil {
			return nil, fmt.Errorf("export: writing %s: %w", path, err)
		}
	}

	e.logger.Info("export complete",
		slog.String("dir", abs),
		slog.Int("pages", len(order)),
	)
	return &Result{Dir: abs, Files: order}, nil
}

func (e *Exporter) render(page string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.renderer.RenderTo(&buf, page, data); err != nil {
		return nil, fmt.Errorf("export: rendering %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// ErrUnsafeTarget is returned when the export directory is the filesystem
// root or contains the working directory.
var ErrUnsafeTarget = errors.New("export: refusing to clean directory")

func checkTarget(abs string) error {
	if abs == filepath.Dir(abs) {
		return fmt.Errorf("%w %s", ErrUnsafeTarget, abs)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if rel, err := filepath.Rel(abs, wd); err == nil && filepath.IsLocal(rel) {
		return fmt.Errorf("%w %s: it contains the working directory", ErrUnsafeTarget, abs)
	}
	return nil
}
