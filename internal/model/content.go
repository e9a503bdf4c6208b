// Package model defines the data structures used throughout the application.
//
// THE CONTENT RECORD:
// Every template page is rendered from exactly one Content value. It is a flat
// aggregate: a handful of scalar text fields plus three ordered lists whose
// elements all share the same shape (Project, SkillCategory, SocialLink).
//
// The JSON tags are the persisted layout. There is no version tag, so a record
// written by an older or newer build is decoded as-is: missing fields come back
// as zero values and unknown fields are dropped.
package model

import "time"

// Content is the template content record edited by the editor and consumed by
// the page templates.
type Content struct {
	Name      string          `json:"name"         yaml:"name"`
	Title     string          `json:"title"        yaml:"title"`
	Subtitle  string          `json:"subtitle"     yaml:"subtitle"`
	HeroImage string          `json:"heroImage"    yaml:"heroImage"`
	Projects  []Project       `json:"projects"     yaml:"projects"`
	Skills    []SkillCategory `json:"skills"       yaml:"skills"`
	Social    []SocialLink    `json:"socialLinks"  yaml:"socialLinks"`
	Email     string          `json:"contactEmail" yaml:"contactEmail"`
	About     string          `json:"about"        yaml:"about"`
	Footer    string          `json:"footerText"   yaml:"footerText"`
}

// Project is one entry in the projects list.
type Project struct {
	Title       string   `json:"title"       yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image"       yaml:"image"`
	Tags        []string `json:"tags"        yaml:"tags"`
}

// SkillCategory groups skill labels under a heading, e.g. "Backend".
type SkillCategory struct {
	Name   string   `json:"name"   yaml:"name"`
	Skills []string `json:"skills" yaml:"skills"`
}

// SocialLink points at an external profile. Icon is an identifier the
// templates map to a glyph ("github", "linkedin", ...), not a URL.
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url"      yaml:"url"`
	Icon     string `json:"icon"     yaml:"icon"`
}

// Entry describes one persisted record without its payload.
// Used by listings ("which templates have been saved, and when").
type Entry struct {
	Key       string    `json:"key"`
	Kind      Kind      `json:"kind"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlankProject returns a project with every field empty.
// Tags is a non-nil empty slice so it encodes as [] rather than null,
// keeping the element the same shape as its siblings.
func BlankProject() Project {
	return Project{Tags: []string{}}
}

// BlankSkillCategory returns a skill category with every field empty.
func BlankSkillCategory() SkillCategory {
	return SkillCategory{Skills: []string{}}
}

// BlankSocialLink returns a social link with every field empty.
func BlankSocialLink() SocialLink {
	return SocialLink{}
}

// Clone returns a deep copy of c.
//
// WHY DEEP?
// Slices in Go share their backing array. A shallow copy (`cp := *c`) would let
// an edit to cp.Projects[0].Tags show up in c as well. The editor mutates its
// copy freely, so the defaults and the stored record must never alias it.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	cp := *c

	if c.Projects != nil {
		cp.Projects = make([]Project, len(c.Projects))
		for i, p := range c.Projects {
			p.Tags = cloneStrings(p.Tags)
			cp.Projects[i] = p
		}
	}
	if c.Skills != nil {
		cp.Skills = make([]SkillCategory, len(c.Skills))
		for i, s := range c.Skills {
			s.Skills = cloneStrings(s.Skills)
			cp.Skills[i] = s
		}
	}
	if c.Social != nil {
		cp.Social = make([]SocialLink, len(c.Social))
		copy(cp.Social, c.Social)
	}
	return &cp
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
