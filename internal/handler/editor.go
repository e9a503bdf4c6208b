package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/auth"
	"github.com/sakif/folio/internal/editor"
	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/render"
	"github.com/sakif/folio/internal/service"
)

// maxFormBytes caps an editor form submission.
const maxFormBytes = 1 << 20

// Form actions. Add and remove carry their target after a colon:
// "add:projects", "remove:skills:2".
const (
	actionApply  = "apply"
	actionSave   = "save"
	actionReload = "reload"
	actionAdd    = "add"
	actionRemove = "remove"
	actionClose  = "close"
)

// notices shown after the redirect that follows a successful POST.
var notices = map[string]string{
	actionApply:  "Changes applied. They are not saved yet.",
	actionSave:   "Saved.",
	actionReload: "Unsaved changes discarded.",
	actionAdd:    "Entry added.",
	actionRemove: "Entry removed.",
	"expired":    "Your editing session had expired, so editing restarted from the last saved copy.",
}

// EditorHandler serves the form editor. The record being edited lives in a
// server-side session; the browser holds a signed cookie pointing at it.
type EditorHandler struct {
	editor *service.EditorService
	tokens *auth.TokenService
	engine *render.Engine
	logger *slog.Logger
}

// NewEditorHandler creates an EditorHandler.
func NewEditorHandler(editorSvc *service.EditorService, tokens *auth.TokenService, engine *render.Engine, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{
		editor: editorSvc,
		tokens: tokens,
		engine: engine,
		logger: logger,
	}
}

// HandleEdit shows the editor form for the caller's session, opening one on
// the currently rendered record if there is none.
//
// HTTP: GET /t/{kind}/edit
func (h *EditorHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	id, _, err := h.session(w, r, kind)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	h.renderForm(w, r, http.StatusOK, id, notices[r.URL.Query().Get("done")], "")
}

// HandleSubmit applies the submitted form to the session's record and then
// performs the requested action.
//
// HTTP: POST /t/{kind}/edit
//
// Every field in the form is applied first, so typing into an input and then
// pressing "Add project" keeps what was typed. "reload" and "close" are the
// exceptions: they throw the in-memory record away, typed values included.
func (h *EditorHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	action := r.PostForm.Get("action")
	if action == "" {
		action = actionApply
	}

	if action == actionClose {
		if id, ok := auth.SessionIDFromContext(r.Context()); ok {
			h.editor.Close(id)
		}
		auth.ClearSessionCookie(w, kind)
		http.Redirect(w, r, TemplateURL(kind), http.StatusSeeOther)
		return
	}

	id, fresh, err := h.session(w, r, kind)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	verb, _, _ := strings.Cut(action, ":")

	if verb != actionReload {
		if _, err := h.editor.Apply(id, r.PostForm); err != nil {
			h.formError(w, r, id, err)
			return
		}
	}

	if err := h.perform(r, id, action); err != nil {
		h.formError(w, r, id, err)
		return
	}

	done := verb
	if fresh && verb != actionSave && verb != actionReload {
		done = "expired"
	}
	http.Redirect(w, r, EditURL(kind)+"?done="+done, http.StatusSeeOther)
}

// perform runs one form action against session id.
func (h *EditorHandler) perform(r *http.Request, id, action string) error {
	verb, arg, _ := strings.Cut(action, ":")

	switch verb {
	case actionApply:
		return nil

	case actionSave:
		return h.editor.Save(r.Context(), id)

	case actionReload:
		_, err := h.editor.Reload(r.Context(), id)
		return err

	case actionAdd:
		section, err := editor.ParseSection(arg)
		if err != nil {
			return err
		}
		_, err = h.editor.Add(id, section)
		return err

	case actionRemove:
		name, idx, _ := strings.Cut(arg, ":")
		section, err := editor.ParseSection(name)
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return apperror.ValidationFailed("action", "invalid entry index: "+idx)
		}
		return h.editor.Remove(id, section, i)
	}

	return apperror.ValidationFailed("action", "unknown action: "+action)
}

// session returns the caller's editor session for kind, opening a new one
// (and setting its cookie) when the cookie is missing, invalid or points at a
// session that no longer exists. fresh reports that a new session was opened.
//
// A reused session gets a new cookie once the old token is half spent, so the
// token lasts as long as the session it points at.
func (h *EditorHandler) session(w http.ResponseWriter, r *http.Request, kind model.Kind) (id string, fresh bool, err error) {
	if id, ok := auth.SessionIDFromContext(r.Context()); ok {
		sess, err := h.editor.Get(id)
		if err == nil && sess.Kind() == kind {
			if exp, ok := auth.TokenExpiryFromContext(r.Context()); ok && h.tokens.NeedsRefresh(exp) {
				if err := auth.SetSessionCookie(w, h.tokens, kind, id); err != nil {
					h.logger.Warn("refreshing editor cookie failed",
						slog.String("kind", string(kind)),
						slog.String("error", err.Error()),
					)
				}
			}
			return id, false, nil
		}
	}

	sess, source, err := h.editor.Open(r.Context(), kind)
	if err != nil {
		return "", false, err
	}
	if err := auth.SetSessionCookie(w, h.tokens, kind, sess.ID); err != nil {
		h.editor.Close(sess.ID)
		return "", false, err
	}

	h.logger.Info("editor session started",
		slog.String("kind", string(kind)),
		slog.String("source", string(source)),
	)
	return sess.ID, true, nil
}

// formError re-renders the form with the error for validation problems and
// falls back to a plain error page for everything else.
func (h *EditorHandler) formError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if !errors.Is(err, apperror.ErrValidation) {
		writePageError(w, r, h.logger, err)
		return
	}
	_, _, message := classify(err)
	h.renderForm(w, r, http.StatusBadRequest, id, "", message)
}

func (h *EditorHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id, notice, errMsg string) {
	v, err := h.editor.View(id)
	if err != nil {
		writePageError(w, r, h.logger, err)
		return
	}

	page := render.EditorPage{
		Kind:    v.Kind,
		Content: v.Content,
		Fields:  v.Fields,
		Dirty:   v.Dirty,
		SavedAt: v.SavedAt,
		Action:  EditURL(v.Kind),
		View:    TemplateURL(v.Kind),
		Notice:  notice,
		Error:   errMsg,
	}
	if err := h.engine.Render(w, status, render.PageEditor, page); err != nil {
		writePageError(w, r, h.logger, err)
	}
}
