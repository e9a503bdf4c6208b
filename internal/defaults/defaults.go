// Package defaults provides the sample content each template renders before
// anything has been saved.
//
// Samples ship inside the binary as YAML (samples/<kind>.yaml). An operator may
// point the loader at a directory holding their own <kind>.yaml files; those
// replace the built-in sample for that kind and are picked up again whenever
// they change (see Watch).
package defaults

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sakif/folio/internal/model"
)

//go:embed samples/*.yaml
var samplesFS embed.FS

// Loader hands out default content per template kind.
type Loader struct {
	mu      sync.RWMutex
	samples map[model.Kind]*model.Content

	builtin map[model.Kind]*model.Content
	dir     string
	logger  *slog.Logger
}

// New loads the embedded samples and, if dir is non-empty, the overrides in it.
// A broken embedded sample is a build defect and fails New; so does a broken
// override at startup, since the operator asked for it explicitly.
func New(dir string, logger *slog.Logger) (*Loader, error) {
	builtin := make(map[model.Kind]*model.Content, len(model.Kinds()))
	for _, kind := range model.Kinds() {
		c, err := decodeFS(samplesFS, "samples/"+string(kind)+".yaml")
		if err != nil {
			return nil, fmt.Errorf("defaults: built-in sample %s: %w", kind, err)
		}
		builtin[kind] = c
	}

	l := &Loader{
		builtin: builtin,
		dir:     dir,
		logger:  logger,
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns a fresh copy of the default content for kind.
// Callers may mutate the result freely.
func (l *Loader) Get(kind model.Kind) *model.Content {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.samples[kind]
	if !ok {
		return &model.Content{}
	}
	return c.Clone()
}

// Dir is the override directory, or "" when only built-in samples are used.
func (l *Loader) Dir() string {
	return l.dir
}

// Reload re-reads the override directory. On error the previous samples stay
// in place so a half-written file never blanks a live page.
func (l *Loader) Reload() error {
	next := make(map[model.Kind]*model.Content, len(l.builtin))
	for kind, c := range l.builtin {
		next[kind] = c
	}

	if l.dir != "" {
		for _, kind := range model.Kinds() {
			path := filepath.Join(l.dir, string(kind)+".yaml")
			c, err := decodeFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("defaults: override %s: %w", path, err)
			}
			next[kind] = c
			l.logger.Debug("sample override loaded",
				slog.String("kind", string(kind)),
				slog.String("path", path),
			)
		}
	}

	l.mu.Lock()
	l.samples = next
	l.mu.Unlock()
	return nil
}

func decodeFS(fsys fs.FS, name string) (*model.Content, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decodeFile(path string) (*model.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*model.Content, error) {
	var c model.Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return &c, nil
}
