// Package editor is the form-state model behind the template editor.
//
// An Editor owns one in-memory Content record. Every form input is addressed
// by a field path and maps one-to-one onto one field of the record:
//
//	name, title, subtitle, heroImage, contactEmail, about, footerText   scalar fields
//	projects.<i>.title|description|image|tags                              project entries
//	skills.<i>.name|skills                                                 skill categories
//	socialLinks.<i>.platform|url|icon                                     social links
//
// Setting a path replaces that field immediately. Values are not validated,
// there is no undo, and nothing is persisted until the caller saves the record
// (see service.EditorService). List-valued fields (tags, skills) travel as
// comma-separated text.
package editor

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/model"
)

// Section names one of the list-valued parts of the record.
type Section string

const (
	SectionProjects Section = "projects"
	SectionSkills   Section = "skills"
	SectionSocial   Section = "socialLinks"
)

// ParseSection validates a section name coming from a form or URL.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionProjects, SectionSkills, SectionSocial:
		return Section(s), nil
	}
	return "", apperror.ValidationFailed("section", "unknown section: "+s)
}

// scalarFields lists the top-level text inputs in form order.
var scalarFields = []string{"name", "title", "subtitle", "heroImage", "contactEmail", "about", "footerText"}

// entryFields lists the per-entry inputs of each section in form order.
var entryFields = map[Section][]string{
	SectionProjects: {"title", "description", "image", "tags"},
	SectionSkills:   {"name", "skills"},
	SectionSocial:   {"platform", "url", "icon"},
}

// Editor mutates one template content record.
// An Editor is not safe for concurrent use; Session serialises access.
type Editor struct {
	kind    model.Kind
	content *model.Content
}

// New starts an editor on a private copy of content.
func New(kind model.Kind, content *model.Content) *Editor {
	c := content.Clone()
	if c == nil {
		c = &model.Content{}
	}
	return &Editor{kind: kind, content: c}
}

// Kind is the template type being edited.
func (e *Editor) Kind() model.Kind {
	return e.kind
}

// Content returns a copy of the current in-memory record.
func (e *Editor) Content() *model.Content {
	return e.content.Clone()
}

// Replace swaps the whole record, e.g. after reloading the saved copy.
func (e *Editor) Replace(content *model.Content) {
	c := content.Clone()
	if c == nil {
		c = &model.Content{}
	}
	e.content = c
}

// fieldPath is a parsed form input name.
type fieldPath struct {
	section Section // "" for scalar fields
	index   int
	field   string
}

func (p fieldPath) String() string {
	if p.section == "" {
		return p.field
	}
	return fmt.Sprintf("%s.%d.%s", p.section, p.index, p.field)
}

// parsePath turns "projects.2.tags" into its parts. It checks names only;
// index bounds are checked against the live record by the caller.
func parsePath(raw string) (fieldPath, error) {
	parts := strings.Split(raw, ".")
	switch len(parts) {
	case 1:
		for _, f := range scalarFields {
			if parts[0] == f {
				return fieldPath{field: f}, nil
			}
		}
	case 3:
		section, err := ParseSection(parts[0])
		if err != nil {
			break
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil || i < 0 {
			break
		}
		for _, f := range entryFields[section] {
			if parts[2] == f {
				return fieldPath{section: section, index: i, field: f}, nil
			}
		}
	}
	return fieldPath{}, apperror.ValidationFailed(raw, "unknown field: "+raw)
}

// IsFieldPath reports whether name addresses a record field (as opposed to,
// say, the form's submit button).
func IsFieldPath(name string) bool {
	_, err := parsePath(name)
	return err == nil
}

// Set replaces the field at path with value.
func (e *Editor) Set(path, value string) error {
	p, err := parsePath(path)
	if err != nil {
		return err
	}
	if err := e.checkIndex(p); err != nil {
		return err
	}

	c := e.content
	switch p.section {
	case "":
		switch p.field {
		case "name":
			c.Name = value
		case "title":
			c.Title = value
		case "subtitle":
			c.Subtitle = value
		case "heroImage":
			c.HeroImage = value
		case "contactEmail":
			c.Email = value
		case "about":
			c.About = value
		case "footerText":
			c.Footer = value
		}

	case SectionProjects:
		proj := &c.Projects[p.index]
		switch p.field {
		case "title":
			proj.Title = value
		case "description":
			proj.Description = value
		case "image":
			proj.Image = value
		case "tags":
			proj.Tags = SplitList(value)
		}

	case SectionSkills:
		cat := &c.Skills[p.index]
		switch p.field {
		case "name":
			cat.Name = value
		case "skills":
			cat.Skills = SplitList(value)
		}

	case SectionSocial:
		link := &c.Social[p.index]
		switch p.field {
		case "platform":
			link.Platform = value
		case "url":
			link.URL = value
		case "icon":
			link.Icon = value
		}
	}
	return nil
}

func (e *Editor) checkIndex(p fieldPath) error {
	if p.section == "" {
		return nil
	}
	if n := e.sectionLen(p.section); p.index >= n {
		return apperror.ValidationFailed(p.String(),
			fmt.Sprintf("%s has %d entries, no index %d", p.section, n, p.index))
	}
	return nil
}

func (e *Editor) sectionLen(s Section) int {
	switch s {
	case SectionProjects:
		return len(e.content.Projects)
	case SectionSkills:
		return len(e.content.Skills)
	case SectionSocial:
		return len(e.content.Social)
	}
	return 0
}

// Add appends a blank-valued entry to section and returns its index.
func (e *Editor) Add(section Section) (int, error) {
	c := e.content
	switch section {
	case SectionProjects:
		c.Projects = append(c.Projects, model.BlankProject())
		return len(c.Projects) - 1, nil
	case SectionSkills:
		c.Skills = append(c.Skills, model.BlankSkillCategory())
		return len(c.Skills) - 1, nil
	case SectionSocial:
		c.Social = append(c.Social, model.BlankSocialLink())
		return len(c.Social) - 1, nil
	}
	return 0, apperror.ValidationFailed("section", "unknown section: "+string(section))
}

// Remove deletes entry i of section, keeping the order of the rest.
func (e *Editor) Remove(section Section, i int) error {
	if _, err := ParseSection(string(section)); err != nil {
		return err
	}
	if i < 0 || i >= e.sectionLen(section) {
		return apperror.ValidationFailed(string(section),
			fmt.Sprintf("%s has %d entries, no index %d", section, e.sectionLen(section), i))
	}

	c := e.content
	switch section {
	case SectionProjects:
		c.Projects = append(c.Projects[:i], c.Projects[i+1:]...)
	case SectionSkills:
		c.Skills = append(c.Skills[:i], c.Skills[i+1:]...)
	case SectionSocial:
		c.Social = append(c.Social[:i], c.Social[i+1:]...)
	}
	return nil
}

// Apply sets every field path present in form and returns how many were set.
// Inputs that are not field paths (buttons, hidden action fields) are ignored.
// The form is checked before anything is set: a field that is not on the
// current record (a stale index, typically) rejects the whole form and
// leaves the record untouched.
func (e *Editor) Apply(form url.Values) (int, error) {
	for name := range form {
		p, err := parsePath(name)
		if err != nil {
			continue
		}
		if err := e.checkIndex(p); err != nil {
			return 0, err
		}
	}

	applied := 0
	for _, path := range e.paths() {
		values, ok := form[path]
		if !ok || len(values) == 0 {
			continue
		}
		if err := e.Set(path, values[0]); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// Fields returns the text value of every field path on the current record,
// as it would populate the form.
func (e *Editor) Fields() map[string]string {
	c := e.content
	out := map[string]string{
		"name":         c.Name,
		"title":        c.Title,
		"subtitle":     c.Subtitle,
		"heroImage":    c.HeroImage,
		"contactEmail": c.Email,
		"about":        c.About,
		"footerText":   c.Footer,
	}
	for i, p := range c.Projects {
		prefix := fmt.Sprintf("projects.%d.", i)
		out[prefix+"title"] = p.Title
		out[prefix+"description"] = p.Description
		out[prefix+"image"] = p.Image
		out[prefix+"tags"] = JoinList(p.Tags)
	}
	for i, s := range c.Skills {
		prefix := fmt.Sprintf("skills.%d.", i)
		out[prefix+"name"] = s.Name
		out[prefix+"skills"] = JoinList(s.Skills)
	}
	for i, l := range c.Social {
		prefix := fmt.Sprintf("socialLinks.%d.", i)
		out[prefix+"platform"] = l.Platform
		out[prefix+"url"] = l.URL
		out[prefix+"icon"] = l.Icon
	}
	return out
}

// paths lists every field path of the current record in form order.
func (e *Editor) paths() []string {
	out := append([]string(nil), scalarFields...)
	for _, s := range []Section{SectionProjects, SectionSkills, SectionSocial} {
		for i := 0; i < e.sectionLen(s); i++ {
			for _, f := range entryFields[s] {
				out = append(out, fmt.Sprintf("%s.%d.%s", s, i, f))
			}
		}
	}
	return out
}

// SplitList turns comma-separated text into a list. Surrounding spaces are
// trimmed from each item; empty items between commas are kept. Text that is
// empty or only spaces yields an empty list.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// JoinList is the inverse of SplitList for display in a text input.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
