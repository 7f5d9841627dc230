package model

import "time"

// Tip is a short daily sustainability tip.  Static content keyed by language.
type Tip struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Language    Language `json:"language"`
}

// Challenge is a weekly challenge.  Progress towards it is tracked only by
// the client and is not a column.
type Challenge struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Language    Language `json:"language"`
}

// Article is an educational article, listed newest PublishDate first.
type Article struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt"`
	Category    Category  `json:"category"`
	Tags        Tags      `json:"tags"`
	PublishDate time.Time `json:"publishDate"`
	Language    Language  `json:"language"`
}
