package model

import "time"

// Resource is an entry in the resource library (a guide, a video, a PDF).
// Resources are searchable by title within a language.
type Resource struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ResourceType `json:"type"`
	Category    Category     `json:"category"`
	URL         string       `json:"url"`
	Language    Language     `json:"language"`
	CreatedAt   time.Time    `json:"createdAt"`
}
