package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/models"
	"gorm.io/datatypes"
)

// FlexList accepts either a JSON string of free text or a JSON array of strings.
type FlexList struct {
	Text  string
	Items []string
}

func (l *FlexList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = FlexList{}
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &l.Text)
	}
	if b[0] == '[' {
		return json.Unmarshal(b, &l.Items)
	}
	return fmt.Errorf("expected string or list of strings, got %s", string(b))
}

// Split returns the trimmed, non-empty entries. Free text is split on sep.
func (l FlexList) Split(sep string) []string {
	parts := l.Items
	if parts == nil {
		parts = strings.Split(l.Text, sep)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ProjectForm is the operator's project editor payload.
// Technologies free text is comma separated; features free text has one per line.
type ProjectForm struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Technologies FlexList `json:"technologies"`
	Features     FlexList `json:"features"`
	GithubURL    string   `json:"githubUrl" label:"GitHub URL" validate:"omitempty,http_url"`
	LiveURL      string   `json:"liveUrl" label:"live URL" validate:"omitempty,http_url"`
	Category     string   `json:"category"`
}

func (f *ProjectForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.GithubURL = strings.TrimSpace(f.GithubURL)
	f.LiveURL = strings.TrimSpace(f.LiveURL)
	f.Category = strings.TrimSpace(f.Category)
}

func (f ProjectForm) Validate() (models.Project, error) {
	f.trim()
	if err := check(f); err != nil {
		return models.Project{}, err
	}
	return models.Project{
		Title:        f.Title,
		Description:  f.Description,
		Technologies: datatypes.JSONSlice[string](f.Technologies.Split(",")),
		Features:     datatypes.JSONSlice[string](f.Features.Split("\n")),
		GithubURL:    optional(f.GithubURL),
		LiveURL:      optional(f.LiveURL),
		Category:     f.Category,
	}, nil
}
