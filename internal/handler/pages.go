package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/render"
	"github.com/sakif/folio/internal/service"
)

// PageHandler serves the rendered template pages.
type PageHandler struct {
	templates *service.TemplateService
	engine    *render.Engine
	logger    *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(templates *service.TemplateService, engine *render.Engine, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		templates: templates,
		engine:    engine,
		logger:    logger,
	}
}

// TemplateURL is where the page of kind is served.
func TemplateURL(kind model.Kind) string {
	return "/t/" + string(kind)
}

// EditURL is where the editor of kind is served.
func EditURL(kind model.Kind) string {
	return TemplateURL(kind) + "/edit"
}

// HandleIndex lists every template type and whether it shows saved content.
//
// HTTP: GET /
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.templates.Overview(r.Context())
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	page := render.IndexPage{Rows: make([]render.IndexRow, 0, len(statuses))}
	for _, st := range statuses {
		page.Rows = append(page.Rows, render.IndexRow{
			Kind:      st.Kind,
			Source:    string(st.Source),
			UpdatedAt: st.UpdatedAt,
			URL:       TemplateURL(st.Kind),
			EditURL:   EditURL(st.Kind),
		})
	}

	if err := h.engine.Render(w, http.StatusOK, render.PageIndex, page); err != nil {
		writePageError(w, r, h.logger, err)
	}
}

// HandleTemplate renders one template from its stored record, or from the
// defaults when nothing has been saved.
//
// HTTP: GET /t/{kind}
func (h *PageHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	content, source, err := h.templates.Load(r.Context(), kind)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	page := render.TemplatePage{
		Kind:    kind,
		Content: content,
		Source:  string(source),
		Links:   render.Links{Home: "/", Edit: EditURL(kind)},
	}
	if err := h.engine.Render(w, http.StatusOK, render.KindPage(kind), page); err != nil {
		writePageError(w, r, h.logger, err)
	}
}
