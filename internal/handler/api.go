package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/service"
)

// maxContentBytes caps a PUT body.
const maxContentBytes = 1 << 20

// SourceHeader tells API clients whether a record is the stored copy or the defaults.
const SourceHeader = "X-Content-Source"

// APIHandler exposes the content records as JSON.
type APIHandler struct {
	templates *service.TemplateService
	logger    *slog.Logger
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(templates *service.TemplateService, logger *slog.Logger) *APIHandler {
	return &APIHandler{templates: templates, logger: logger}
}

// TemplateSummary is one element of the list response.
type TemplateSummary struct {
	Kind      model.Kind     `json:"kind"`
	Key       string         `json:"key"`
	Source    service.Source `json:"source"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// HandleList reports every template type and where its content comes from.
//
// HTTP: GET /api/templates
func (h *APIHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.templates.Overview(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out := make([]TemplateSummary, 0, len(statuses))
	for _, st := range statuses {
		s := TemplateSummary{Kind: st.Kind, Key: st.Kind.StorageKey(), Source: st.Source}
		if !st.UpdatedAt.IsZero() {
			t := st.UpdatedAt
			s.UpdatedAt = &t
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet returns the record the template of kind renders.
//
// HTTP: GET /api/templates/{kind}
func (h *APIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	content, source, err := h.templates.Load(r.Context(), kind)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set(SourceHeader, string(source))
	writeJSON(w, http.StatusOK, content)
}

// HandlePut replaces the stored record of kind wholesale.
//
// HTTP: PUT /api/templates/{kind}
//
// The body is decoded leniently, like a stored record: unknown fields are
// dropped and missing ones are stored empty. Only a body that is not exactly
// one JSON object is rejected.
func (h *APIHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxContentBytes)
	var content *model.Content
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&content); err != nil {
		writeError(w, r, h.logger, apperror.ValidationFailed("body", "request body must be a JSON object"))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, r, h.logger, apperror.ValidationFailed("body", "request body must hold a single JSON object"))
		return
	}

	if err := h.templates.Save(r.Context(), kind, content); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set(SourceHeader, string(service.SourceStored))
	writeJSON(w, http.StatusOK, content)
}
