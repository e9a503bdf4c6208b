package render

import (
	"time"

	"github.com/sakif/folio/internal/model"
)

// Links are the URLs a page points at. They differ between the live server
// and a static export, so callers fill them in.
type Links struct {
	Home string
	Edit string // empty hides the edit link
}

// IndexRow is one template type on the index page.
type IndexRow struct {
	Kind      model.Kind
	Source    string // "stored" or "defaults"
	UpdatedAt time.Time
	URL       string
	EditURL   string
}

// IndexPage is the data for PageIndex.
type IndexPage struct {
	Rows []IndexRow
}

// TemplatePage is the data for a kind's page.
type TemplatePage struct {
	Kind    model.Kind
	Content *model.Content
	Source  string
	Links   Links
}

// EditorPage is the data for PageEditor.
type EditorPage struct {
	Kind    model.Kind
	Content *model.Content
	Fields  map[string]string
	Dirty   bool
	SavedAt time.Time
	Action  string // form target
	View    string // rendered page of the same kind
	Notice  string
	Error   string
}
