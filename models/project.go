package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project represents a showcase entry curated by the operator
type Project struct {
	ID           uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string                      `json:"description" db:"description" gorm:"type:text;not null"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"type:jsonb"`
	Features     datatypes.JSONSlice[string] `json:"features" db:"features" gorm:"type:jsonb"`
	GithubURL    *string                     `json:"githubUrl,omitempty" db:"github_url" gorm:"type:text"`
	LiveURL      *string                     `json:"liveUrl,omitempty" db:"live_url" gorm:"type:text"`
	Category     string                      `json:"category" db:"category" gorm:"type:text;index"`
	CreatedAt    time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null"`
}

func (Project) TableName() string { return "projects" }

// Patch returns the editable columns of p keyed by column name.
func (p Project) Patch() map[string]any {
	return map[string]any{
		"title":        p.Title,
		"description":  p.Description,
		"technologies": p.Technologies,
		"features":     p.Features,
		"github_url":   p.GithubURL,
		"live_url":     p.LiveURL,
		"category":     p.Category,
	}
}
