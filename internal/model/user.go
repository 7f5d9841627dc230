package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the server: it is excluded from JSON
// here and handlers additionally map users onto a response type without it.
//
// Fields:
//  ID                    – primary key identifier.
//  Username              – unique login name.
//  PasswordHash          – bcrypt hash of the password.
//  Name                  – display name.
//  Email                 – unique email address.
//  Language              – preferred content language.
//  AccessibilitySettings – display preferences, stored as a JSON blob.
type User struct {
	ID                    uint64                `json:"id"`
	Username              string                `json:"username"`
	PasswordHash          string                `json:"-"`
	Name                  string                `json:"name"`
	Email                 string                `json:"email"`
	Language              Language              `json:"language"`
	AccessibilitySettings AccessibilitySettings `json:"accessibilitySettings"`
}

// AccessibilitySettings holds the per-user display preferences.  TextSize
// and Contrast are multipliers where 1 is the default rendering.
type AccessibilitySettings struct {
	TextSize         float64 `json:"textSize"`
	Contrast         float64 `json:"contrast"`
	ScreenReader     bool    `json:"screenReader"`
	DyslexiaFont     bool    `json:"dyslexiaFont"`
	ReduceAnimations bool    `json:"reduceAnimations"`
}

// DefaultAccessibilitySettings is applied to users created without settings.
func DefaultAccessibilitySettings() AccessibilitySettings {
	return AccessibilitySettings{TextSize: 1, Contrast: 1}
}

// Value implements driver.Valuer; the blob is written as JSON text.
func (a AccessibilitySettings) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.  A NULL column yields the defaults.
func (a *AccessibilitySettings) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = DefaultAccessibilitySettings()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("AccessibilitySettings.Scan: cannot scan %T", src)
	}
	out := DefaultAccessibilitySettings()
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("AccessibilitySettings.Scan: %w", err)
	}
	*a = out
	return nil
}
