package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/folio/internal/auth"
	"github.com/sakif/folio/internal/defaults"
	"github.com/sakif/folio/internal/editor"
	"github.com/sakif/folio/internal/handler"
	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/render"
	sqliteRepo "github.com/sakif/folio/internal/repository/sqlite"
	"github.com/sakif/folio/internal/service"
)

const testSecret = "handler-test-secret-0123456789"

// testApp is the full handler stack on an in-memory database.
type testApp struct {
	router http.Handler
	db     *sqliteRepo.DB
	tokens *auth.TokenService
	store  *editor.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	samples, err := defaults.New("", logger)
	require.NoError(t, err)

	engine, err := render.New()
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	store := editor.NewStore(16, time.Hour)
	templates := service.NewTemplateService(db, samples, logger)
	editorSvc := service.NewEditorService(templates, store, logger)

	pages := handler.NewPageHandler(templates, engine, logger)
	editorHandler := handler.NewEditorHandler(editorSvc, tokens, engine, logger)
	api := handler.NewAPIHandler(templates, logger)
	health := handler.NewHealthHandler(db, logger)

	r := chi.NewRouter()
	r.Get("/", pages.HandleIndex)
	r.Get("/healthz", health.HandleHealth)
	r.Route("/t/{kind}", func(r chi.Router) {
		r.Get("/", pages.HandleTemplate)
		r.Group(func(r chi.Router) {
			r.Use(auth.EditorSession(tokens, handler.KindFromRequest))
			r.Get("/edit", editorHandler.HandleEdit)
			r.Post("/edit", editorHandler.HandleSubmit)
		})
	})
	r.Route("/api/templates", func(r chi.Router) {
		r.Get("/", api.HandleList)
		r.Get("/{kind}", api.HandleGet)
		r.Put("/{kind}", api.HandlePut)
	})

	return &testApp{router: r, db: db, tokens: tokens, store: store}
}

// do sends req through the router and returns the recorded response.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

// sessionCookie returns the editor cookie for kind set by rec.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, kind model.Kind) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName(kind) {
			return c
		}
	}
	t.Fatalf("no %s cookie in response (headers: %v)", auth.CookieName(kind), rec.Header())
	return nil
}

func hasCookie(rec *httptest.ResponseRecorder, name string) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return true
		}
	}
	return false
}
