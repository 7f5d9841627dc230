package repository

import (
	"context"
	"time"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// ActivityRepo encapsulates queries against the append-only activities log.
type ActivityRepo struct{ db *database.DB }

func NewActivityRepo(db *database.DB) *ActivityRepo { return &ActivityRepo{db: db} }

const activityColumns = "id, user_id, type, description, carbon_saved, date"

func scanActivity(s rowScanner) (*model.Activity, error) {
	var a model.Activity
	if err := s.Scan(&a.ID, &a.UserID, &a.Type, &a.Description, &a.CarbonSaved, &a.Date); err != nil {
		return nil, err
	}
	a.Date = a.Date.UTC()
	return &a, nil
}

// ListUserActivities returns a user's activities, newest date first.  An
// unknown user simply has no activities.
func (r *ActivityRepo) ListUserActivities(ctx context.Context, userID uint64) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE user_id = ? ORDER BY date DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CreateActivity appends an activity.  A zero Date means now.
func (r *ActivityRepo) CreateActivity(ctx context.Context, a model.Activity) (*model.Activity, error) {
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	id, err := r.db.InsertID(ctx,
		"INSERT INTO activities (user_id, type, description, carbon_saved, date) VALUES (?, ?, ?, ?, ?)",
		a.UserID, a.Type, a.Description, a.CarbonSaved, a.Date.UTC())
	if err != nil {
		return nil, err
	}
	out, err := scanActivity(r.db.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id = ?", id))
	return out, notFound(err)
}
