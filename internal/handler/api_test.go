package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/folio/internal/handler"
	"github.com/sakif/folio/internal/model"
)

func (a *testApp) putJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAPI_List(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/api/templates")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeJSON[[]handler.TemplateSummary](t, rec)
	require.Len(t, list, len(model.Kinds()))
	for i, kind := range model.Kinds() {
		assert.Equal(t, kind, list[i].Kind)
		assert.Equal(t, "template_"+string(kind), list[i].Key)
		assert.EqualValues(t, "defaults", list[i].Source)
		assert.Nil(t, list[i].UpdatedAt)
	}

	app.putJSON(t, "/api/templates/saas", `{"name":"Acme"}`)

	list = decodeJSON[[]handler.TemplateSummary](t, app.get(t, "/api/templates"))
	for _, s := range list {
		if s.Kind == model.KindSaaS {
			assert.EqualValues(t, "stored", s.Source)
			assert.NotNil(t, s.UpdatedAt)
		} else {
			assert.EqualValues(t, "defaults", s.Source)
		}
	}
}

func TestAPI_GetDefaults(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/api/templates/portfolio")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "defaults", rec.Header().Get(handler.SourceHeader))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"name", "title", "subtitle", "heroImage", "projects", "skills", "socialLinks", "contactEmail", "about", "footerText"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `"Jordan Lee"`, string(raw["name"]))
}

func TestAPI_PutThenGet(t *testing.T) {
	app := newTestApp(t)

	body := `{
		"name": "Grace Hopper",
		"projects": [{"title": "COBOL", "description": "", "image": "", "tags": ["languages"]}],
		"skills": [],
		"socialLinks": [],
		"unknownField": true
	}`
	rec := app.putJSON(t, "/api/templates/developer", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "stored", rec.Header().Get(handler.SourceHeader))

	rec = app.get(t, "/api/templates/developer")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stored", rec.Header().Get(handler.SourceHeader))

	got := decodeJSON[model.Content](t, rec)
	assert.Equal(t, "Grace Hopper", got.Name)
	assert.Empty(t, got.Title, "missing fields are stored empty, not filled from defaults")
	require.Len(t, got.Projects, 1)
	assert.Equal(t, []string{"languages"}, got.Projects[0].Tags)

	page := app.get(t, "/t/developer")
	assert.Contains(t, page.Body.String(), "Grace Hopper")
}

func TestAPI_PutReplacesWholesale(t *testing.T) {
	app := newTestApp(t)

	app.putJSON(t, "/api/templates/portfolio", `{"name":"First","title":"Kept?"}`)
	app.putJSON(t, "/api/templates/portfolio", `{"name":"Second"}`)

	got := decodeJSON[model.Content](t, app.get(t, "/api/templates/portfolio"))
	assert.Equal(t, "Second", got.Name)
	assert.Empty(t, got.Title, "last write wins for the whole record")
}

func TestAPI_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantType   string
	}{
		{"get unknown kind", http.MethodGet, "/api/templates/blog", "", http.StatusNotFound, "not_found"},
		{"put unknown kind", http.MethodPut, "/api/templates/blog", `{}`, http.StatusNotFound, "not_found"},
		{"malformed JSON", http.MethodPut, "/api/templates/portfolio", `{"name":`, http.StatusBadRequest, "validation_error"},
		{"array body", http.MethodPut, "/api/templates/portfolio", `[1,2]`, http.StatusBadRequest, "validation_error"},
		{"null body", http.MethodPut, "/api/templates/portfolio", `null`, http.StatusBadRequest, "validation_error"},
		{"trailing garbage", http.MethodPut, "/api/templates/portfolio", `{}xyz`, http.StatusBadRequest, "validation_error"},
		{"two objects", http.MethodPut, "/api/templates/portfolio", `{"name":"a"} {"name":"b"}`, http.StatusBadRequest, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := app.do(req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeJSON[handler.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantType, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, app.db.Close())

	rec = app.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPages(t *testing.T) {
	app := newTestApp(t)

	t.Run("index lists every kind", func(t *testing.T) {
		rec := app.get(t, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		for _, kind := range model.Kinds() {
			assert.Contains(t, rec.Body.String(), `href="/t/`+string(kind)+`"`)
			assert.Contains(t, rec.Body.String(), kind.DisplayName())
		}
	})

	t.Run("template page links to its editor", func(t *testing.T) {
		rec := app.get(t, "/t/saas")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/t/saas/edit"`)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := app.get(t, "/t/blog")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown template type: blog")
	})
}
