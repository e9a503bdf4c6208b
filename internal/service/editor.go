package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/editor"
	"github.com/sakif/folio/internal/model"
)

// EditorService drives editor sessions: it opens them on the record a page
// would render, applies edits to the in-memory copy, and writes that copy
// back wholesale on save.
type EditorService struct {
	templates *TemplateService
	store     *editor.Store
	logger    *slog.Logger
}

// NewEditorService creates an EditorService.
func NewEditorService(templates *TemplateService, store *editor.Store, logger *slog.Logger) *EditorService {
	return &EditorService{
		templates: templates,
		store:     store,
		logger:    logger,
	}
}

// EditorView is a snapshot of a session for rendering the editor form.
type EditorView struct {
	SessionID string
	Kind      model.Kind
	Content   *model.Content
	Fields    map[string]string
	Dirty     bool
	SavedAt   time.Time
}

// Open starts a session on the record kind currently renders.
func (s *EditorService) Open(ctx context.Context, kind model.Kind) (*editor.Session, Source, error) {
	content, source, err := s.templates.Load(ctx, kind)
	if err != nil {
		return nil, "", err
	}
	sess := s.store.Create(kind, content)

	s.logger.Debug("editor session opened",
		slog.String("session", sess.ID),
		slog.String("kind", string(kind)),
		slog.String("source", string(source)),
	)
	return sess, source, nil
}

// Get returns the live session with id.
func (s *EditorService) Get(id string) (*editor.Session, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, apperror.NotFound("editor session", id)
	}
	return sess, nil
}

// View snapshots the session for display.
func (s *EditorService) View(id string) (*EditorView, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	v := &EditorView{SessionID: sess.ID, Kind: sess.Kind()}
	sess.View(func(e *editor.Editor) {
		v.Content = e.Content()
		v.Fields = e.Fields()
	})
	v.Dirty, v.SavedAt = sess.Status()
	return v, nil
}

// Set replaces one field of the session's record.
func (s *EditorService) Set(id, path, value string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	return sess.Do(func(e *editor.Editor) error {
		return e.Set(path, value)
	})
}

// Apply sets every field present in form and reports how many were set.
func (s *EditorService) Apply(id string, form url.Values) (int, error) {
	sess, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	var n int
	err = sess.Do(func(e *editor.Editor) error {
		var applyErr error
		n, applyErr = e.Apply(form)
		return applyErr
	})
	return n, err
}

// Add appends a blank entry to section and returns its index.
func (s *EditorService) Add(id string, section editor.Section) (int, error) {
	sess, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	var i int
	err = sess.Do(func(e *editor.Editor) error {
		var addErr error
		i, addErr = e.Add(section)
		return addErr
	})
	return i, err
}

// Remove drops entry i of section.
func (s *EditorService) Remove(id string, section editor.Section, i int) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	return sess.Do(func(e *editor.Editor) error {
		return e.Remove(section, i)
	})
}

// Save writes the session's in-memory record to storage exactly as it is.
func (s *EditorService) Save(ctx context.Context, id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}

	var content *model.Content
	sess.View(func(e *editor.Editor) { content = e.Content() })

	if err := s.templates.Save(ctx, sess.Kind(), content); err != nil {
		return fmt.Errorf("editor session %s: %w", id, err)
	}
	sess.MarkClean(true)
	return nil
}

// Reload discards unsaved edits and puts the last-saved record (or the
// defaults, if nothing was ever saved) back into the session.
func (s *EditorService) Reload(ctx context.Context, id string) (Source, error) {
	sess, err := s.Get(id)
	if err != nil {
		return "", err
	}

	content, source, err := s.templates.Load(ctx, sess.Kind())
	if err != nil {
		return "", err
	}
	sess.Reset(content)

	s.logger.Debug("editor session reloaded",
		slog.String("session", id),
		slog.String("source", string(source)),
	)
	return source, nil
}

// Close ends a session, discarding unsaved edits.
func (s *EditorService) Close(id string) {
	s.store.Delete(id)
}
