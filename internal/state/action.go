package state

import "github.com/iliyamo/eco-education/internal/model"

// Action is one of the types below.  The unexported method closes the set.
type Action interface{ action() }

type SetUser struct{ User model.User }

type SetUserStats struct{ Stats UserStats }

type SetDailyTip struct{ Tip DailyTip }

type SetWeeklyChallenge struct{ Challenge WeeklyChallenge }

type SetActiveTab struct{ Tab string }

// UpdateChallengeProgress replaces only WeeklyChallenge.Progress.
type UpdateChallengeProgress struct{ Progress int }

// UpdateUserLanguage replaces only User.Language.
type UpdateUserLanguage struct{ Language model.Language }

// UpdateAccessibilitySettings replaces User.AccessibilitySettings wholesale.
type UpdateAccessibilitySettings struct{ Settings model.AccessibilitySettings }

func (SetUser) action()                     {}
func (SetUserStats) action()                {}
func (SetDailyTip) action()                 {}
func (SetWeeklyChallenge) action()          {}
func (SetActiveTab) action()                {}
func (UpdateChallengeProgress) action()     {}
func (UpdateUserLanguage) action()          {}
func (UpdateAccessibilitySettings) action() {}

// Reduce returns the state after applying a to prev.  It never mutates prev
// and returns prev unchanged for an action it does not know.
func Reduce(prev AppState, a Action) AppState {
	next := prev
	switch a := a.(type) {
	case SetUser:
		next.User = a.User
	case SetUserStats:
		next.Stats = a.Stats
	case SetDailyTip:
		next.DailyTip = a.Tip
	case SetWeeklyChallenge:
		next.WeeklyChallenge = a.Challenge
	case SetActiveTab:
		next.ActiveTab = a.Tab
	case UpdateChallengeProgress:
		next.WeeklyChallenge.Progress = a.Progress
	case UpdateUserLanguage:
		next.User.Language = a.Language
	case UpdateAccessibilitySettings:
		next.User.AccessibilitySettings = a.Settings
	}
	return next
}
