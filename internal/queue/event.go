// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"encoding/json"
	"fmt"
)

// Queue names.  Each event type travels on its own durable queue whose name
// doubles as the routing key on the default exchange.
const (
	ActivityLoggedQueue = "activity.logged"
	PostLikedQueue      = "post.liked"
)

// Queues lists every queue the consumer subscribes to.
var Queues = []string{ActivityLoggedQueue, PostLikedQueue}

// ActivityLoggedEvent is published after a user logs a sustainability
// activity.
type ActivityLoggedEvent struct {
	ActivityID  uint64  `json:"activityId"`
	UserID      uint64  `json:"userId"`
	Type        string  `json:"type"`
	CarbonSaved float64 `json:"carbonSaved"`
	Date        string  `json:"date"`
}

// PostLikedEvent is published after a like is counted.  UserID is zero for
// anonymous likes.
type PostLikedEvent struct {
	PostID    uint64 `json:"postId"`
	UserID    uint64 `json:"userId,omitempty"`
	LikeCount uint32 `json:"likeCount"`
	LikedAt   string `json:"likedAt"`
}

// FormatLine renders a delivery from the named queue as a single log line
// (without the trailing newline).
func FormatLine(queue string, body []byte) (string, error) {
	switch queue {
	case ActivityLoggedQueue:
		var ev ActivityLoggedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", queue, err)
		}
		return fmt.Sprintf("[%s] Activity logged | activity_id=%d | user_id=%d | type=%s | carbon_saved=%.2f",
			ev.Date, ev.ActivityID, ev.UserID, ev.Type, ev.CarbonSaved), nil
	case PostLikedQueue:
		var ev PostLikedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", queue, err)
		}
		return fmt.Sprintf("[%s] Post liked | post_id=%d | user_id=%d | like_count=%d",
			ev.LikedAt, ev.PostID, ev.UserID, ev.LikeCount), nil
	}
	return "", fmt.Errorf("unknown queue %q", queue)
}
