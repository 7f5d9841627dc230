package model

import "time"

// AllPostsCategory is the forum's catch-all tab.  Filtering by it is the
// same as not filtering.
const AllPostsCategory Category = "All Posts"

// Post is a community forum post.  Rows are immutable after creation except
// LikeCount, which only ever grows by atomic increments; both counters start
// at zero and are never negative.
type Post struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"userId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     Category  `json:"category"`
	Tags         Tags      `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	LikeCount    uint32    `json:"likeCount"`
	CommentCount uint32    `json:"commentCount"`
}
