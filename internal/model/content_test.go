package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sakif/folio/internal/apperror"
)

func sampleContent() *Content {
	return &Content{
		Name:  "Ada",
		Title: "Engineer",
		Projects: []Project{
			{Title: "Engine", Tags: []string{"math", "hardware"}},
		},
		Skills: []SkillCategory{
			{Name: "Languages", Skills: []string{"Go", "SQL"}},
		},
		Social: []SocialLink{
			{Platform: "GitHub", URL: "https://github.com/ada", Icon: "github"},
		},
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := sampleContent()
	cp := orig.Clone()

	cp.Name = "Grace"
	cp.Projects[0].Title = "Compiler"
	cp.Projects[0].Tags[0] = "cobol"
	cp.Skills[0].Skills[1] = "COBOL"
	cp.Social[0].URL = "https://example.com"

	if orig.Name != "Ada" {
		t.Errorf("Name leaked into original: %q", orig.Name)
	}
	if orig.Projects[0].Title != "Engine" {
		t.Errorf("project title leaked into original: %q", orig.Projects[0].Title)
	}
	if orig.Projects[0].Tags[0] != "math" {
		t.Errorf("tag leaked into original: %q", orig.Projects[0].Tags[0])
	}
	if orig.Skills[0].Skills[1] != "SQL" {
		t.Errorf("skill leaked into original: %q", orig.Skills[0].Skills[1])
	}
	if orig.Social[0].URL != "https://github.com/ada" {
		t.Errorf("social URL leaked into original: %q", orig.Social[0].URL)
	}
}

func TestClone_Nil(t *testing.T) {
	var c *Content
	if c.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestBlankEntries_EncodeEmptyLists(t *testing.T) {
	b, err := json.Marshal(BlankProject())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"title":"","description":"","image":"","tags":[]}`
	if string(b) != want {
		t.Errorf("BlankProject JSON = %s, want %s", b, want)
	}

	b, _ = json.Marshal(BlankSkillCategory())
	if string(b) != `{"name":"","skills":[]}` {
		t.Errorf("BlankSkillCategory JSON = %s", b)
	}
}

// Stored records carry no version tag, so anything decodable must load.
func TestContent_DecodesForeignSchema(t *testing.T) {
	raw := `{"name":"Old","legacyField":42,"projects":[{"title":"P","stars":5}]}`

	var c Content
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.Name != "Old" {
		t.Errorf("Name = %q, want Old", c.Name)
	}
	if c.Title != "" || c.Email != "" {
		t.Error("missing fields should decode as empty strings")
	}
	if len(c.Projects) != 1 || c.Projects[0].Title != "P" {
		t.Errorf("Projects = %+v", c.Projects)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"portfolio", KindPortfolio, false},
		{"Developer", KindDeveloper, false},
		{"  SaaS ", KindSaaS, false},
		{"blog", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrValidation) {
					t.Fatalf("ParseKind(%q) error = %v, want ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStorageKeyRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := KindFromStorageKey(k.StorageKey())
		if !ok || got != k {
			t.Errorf("KindFromStorageKey(%q) = %q, %v", k.StorageKey(), got, ok)
		}
	}

	if _, ok := KindFromStorageKey("settings:theme"); ok {
		t.Error("foreign key should not map to a kind")
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[Kind]string{
		KindPortfolio: "Portfolio",
		KindDeveloper: "Developer",
		KindSaaS:      "SaaS",
	}
	for k, want := range tests {
		if got := k.DisplayName(); got != want {
			t.Errorf("%q.DisplayName() = %q, want %q", k, got, want)
		}
	}
}

// The persisted layout uses these exact keys; renaming one orphans every
// record saved before the rename.
func TestContent_JSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Content{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, k := range []string{"name", "title", "subtitle", "heroImage", "projects", "skills",
		"socialLinks", "contactEmail", "about", "footerText"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("encoded record lacks %q: %s", k, b)
		}
	}
	if len(fields) != 10 {
		t.Errorf("encoded record has %d fields, want 10: %s", len(fields), b)
	}
}
