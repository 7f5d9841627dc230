package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Language is a supported content language code.  Every entity except
// Activity carries one; an empty code means DefaultLanguage.
type Language string

const DefaultLanguage Language = "en"

// SupportedLanguages lists the codes offered by the language picker, in
// display order.
var SupportedLanguages = []Language{"en", "es", "fr", "de", "zh"}

// Valid reports whether l is one of SupportedLanguages.
func (l Language) Valid() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// OrDefault returns DefaultLanguage for an empty code.
func (l Language) OrDefault() Language {
	if l == "" {
		return DefaultLanguage
	}
	return l
}

// UnmarshalText trims and lower-cases a body value the way ParseLanguage
// treats the query parameter.  Support is checked by validation, not here.
func (l *Language) UnmarshalText(b []byte) error {
	*l = Language(strings.ToLower(strings.TrimSpace(string(b))))
	return nil
}

// ParseLanguage normalizes a query-string or body value.  Empty input maps
// to DefaultLanguage; anything unsupported is an error.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s))).OrDefault()
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Category is a free-form topic label ("Climate Change", "recycling",
// "Tips & Tricks").  It is trimmed and bounded rather than enumerated
// because editors add categories with new content.
type Category string

const MaxCategoryLen = 64

// NormalizeCategory trims surrounding whitespace.
func NormalizeCategory(s string) Category { return Category(strings.TrimSpace(s)) }

// Valid reports whether c is non-empty and within MaxCategoryLen.
func (c Category) Valid() bool {
	return c != "" && len(c) <= MaxCategoryLen && strings.TrimSpace(string(c)) == string(c)
}

// ActivityType classifies a logged sustainability activity.
type ActivityType string

const (
	ActivityTransport   ActivityType = "transport"
	ActivityRecycling   ActivityType = "recycling"
	ActivityEnergy      ActivityType = "energy"
	ActivityConsumption ActivityType = "consumption"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTransport, ActivityRecycling, ActivityEnergy, ActivityConsumption:
		return true
	}
	return false
}

// ResourceType is the media kind of a library resource.
type ResourceType string

const (
	ResourcePDF     ResourceType = "pdf"
	ResourceVideo   ResourceType = "video"
	ResourceArticle ResourceType = "article"
	ResourceGuide   ResourceType = "guide"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourcePDF, ResourceVideo, ResourceArticle, ResourceGuide:
		return true
	}
	return false
}

// Tags is a list of labels persisted as a JSON array so the same column
// works across postgres (jsonb), mysql (JSON) and sqlite (TEXT).
type Tags []string

// NormalizeTags trims members and drops empty ones.  A nil input stays nil.
func NormalizeTags(in []string) Tags {
	if in == nil {
		return nil
	}
	out := make(Tags, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Value implements driver.Valuer.  nil is stored as an empty array.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("Tags.Scan: cannot scan %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("Tags.Scan: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = Tags(out)
	return nil
}
