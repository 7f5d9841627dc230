// Package state is the client-side application state container.  State
// changes only through Reduce, driven by the closed set of Action types.
package state

import (
	"fmt"

	"github.com/iliyamo/eco-education/internal/model"
)

// Navigation tabs.
const (
	TabHome      = "home"
	TabLearn     = "learn"
	TabTrack     = "track"
	TabCommunity = "community"
	TabResources = "resources"
)

// UserStats are display strings, not numbers: the dashboard shows them as
// given.
type UserStats struct {
	Recycling    string `json:"recycling"`
	CarbonSaved  string `json:"carbonSaved"`
	WaterSaved   string `json:"waterSaved"`
	TreesPlanted int    `json:"treesPlanted"`
}

type DailyTip struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// WeeklyChallenge carries the client-local Progress percentage.  Progress
// is stored as given; it is not clamped.
type WeeklyChallenge struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
}

type AppState struct {
	User            model.User      `json:"user"`
	Stats           UserStats       `json:"userStats"`
	DailyTip        DailyTip        `json:"dailyTip"`
	WeeklyChallenge WeeklyChallenge `json:"weeklyChallenge"`
	ActiveTab       string          `json:"activeTab"`
}

// Initial returns the state the client starts with before any fetch.
func Initial() AppState {
	return AppState{
		User: model.User{
			ID:                    1,
			Name:                  "Alicia",
			Username:              "alicia",
			Email:                 "alicia@example.com",
			Language:              model.DefaultLanguage,
			AccessibilitySettings: model.DefaultAccessibilitySettings(),
		},
		Stats: UserStats{
			Recycling:    "12 kg",
			CarbonSaved:  "24 kg",
			WaterSaved:   "140 L",
			TreesPlanted: 2,
		},
		DailyTip: DailyTip{
			ID:          1,
			Title:       "Save water while brushing teeth",
			Description: "Turn off the tap while brushing your teeth. This can save up to 8 gallons of water per day, which is 240 gallons per month!",
		},
		WeeklyChallenge: WeeklyChallenge{
			ID:          1,
			Title:       "Plastic-Free Week",
			Description: "Avoid single-use plastics this week. Use reusable bags, bottles, and containers whenever possible.",
			Progress:    45,
		},
		ActiveTab: TabHome,
	}
}

// StatsFromActivities derives the carbon and recycling figures from a user's
// activity log.  The water and tree figures are not tracked by activities
// and are carried over from prev.
func StatsFromActivities(prev UserStats, acts []model.Activity) UserStats {
	var carbon float64
	recycled := 0
	for _, a := range acts {
		carbon += a.CarbonSaved
		if a.Type == model.ActivityRecycling {
			recycled++
		}
	}
	out := prev
	out.CarbonSaved = fmt.Sprintf("%.0f kg", carbon)
	out.Recycling = fmt.Sprintf("%d times", recycled)
	return out
}
