// Package service holds the application logic between the HTTP/CLI surfaces
// and storage.
//
// LAYERS:
//
//	handler / cmd  → parse input, render output
//	service        → decide which record a page shows, drive editor sessions
//	repository     → read and write JSON blobs by key
//
// The services take the repository as an interface so tests can hand them an
// in-memory fake (see template_test.go).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/repository"
)

// Source says where the record a page shows came from.
type Source string

const (
	SourceStored   Source = "stored"
	SourceDefaults Source = "defaults"
)

// Defaults supplies the sample record for a kind. defaults.Loader satisfies it.
type Defaults interface {
	Get(kind model.Kind) *model.Content
}

// TemplateService decides which content record each template renders and
// persists records on save.
type TemplateService struct {
	repo     repository.ContentRepository
	defaults Defaults
	logger   *slog.Logger
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(repo repository.ContentRepository, defaults Defaults, logger *slog.Logger) *TemplateService {
	return &TemplateService{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// Load returns the record a template of kind should render: the stored copy
// when one exists, the defaults otherwise. The stored copy is used as-is,
// whatever fields it has or lacks.
func (s *TemplateService) Load(ctx context.Context, kind model.Kind) (*model.Content, Source, error) {
	content, err := s.repo.Get(ctx, kind.StorageKey())
	if err == nil {
		return content, SourceStored, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, "", fmt.Errorf("loading %s content: %w", kind, err)
	}
	return s.defaults.Get(kind), SourceDefaults, nil
}

// Save persists content under kind's key, replacing whatever was there.
// Concurrent savers are not coordinated; the last write wins.
func (s *TemplateService) Save(ctx context.Context, kind model.Kind, content *model.Content) error {
	if content == nil {
		return apperror.ValidationFailed("content", "content is required")
	}
	if err := s.repo.Put(ctx, kind.StorageKey(), content); err != nil {
		return fmt.Errorf("saving %s content: %w", kind, err)
	}

	s.logger.Info("template content saved",
		slog.String("kind", string(kind)),
		slog.Int("projects", len(content.Projects)),
		slog.Int("skills", len(content.Skills)),
		slog.Int("socialLinks", len(content.Social)),
	)
	return nil
}

// Saved lists the template kinds that have a stored record, most recent first.
func (s *TemplateService) Saved(ctx context.Context) ([]model.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing saved content: %w", err)
	}
	return entries, nil
}

// Status is one row of the template index.
type Status struct {
	Kind      model.Kind
	Source    Source
	UpdatedAt time.Time // zero unless Source is SourceStored
}

// Overview reports, for every known kind, whether it renders a stored record
// or its defaults.
func (s *TemplateService) Overview(ctx context.Context) ([]Status, error) {
	entries, err := s.Saved(ctx)
	if err != nil {
		return nil, err
	}
	byKind := make(map[model.Kind]model.Entry, len(entries))
	for _, e := range entries {
		byKind[e.Kind] = e
	}

	out := make([]Status, 0, len(model.Kinds()))
	for _, kind := range model.Kinds() {
		st := Status{Kind: kind, Source: SourceDefaults}
		if e, ok := byKind[kind]; ok {
			st.Source = SourceStored
			st.UpdatedAt = e.UpdatedAt
		}
		out = append(out, st)
	}
	return out, nil
}
