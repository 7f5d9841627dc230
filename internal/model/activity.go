package model

import "time"

// Activity is one entry in a user's append-only sustainability log.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who logged the activity.
//  Type        – transport, recycling, energy or consumption.
//  Description – free text.
//  CarbonSaved – estimated kilograms of CO2 avoided.
//  Date        – when the activity happened; listings are newest first.
type Activity struct {
	ID          uint64       `json:"id"`
	UserID      uint64       `json:"userId"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	CarbonSaved float64      `json:"carbonSaved"`
	Date        time.Time    `json:"date"`
}
