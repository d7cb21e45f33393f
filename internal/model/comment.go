package model

import "time"

// Comment is a reader comment attached to exactly one post.
//
// IDs are xid strings — 20 chars, URL-safe, and sortable by creation time
// (they start with a timestamp), so a comment list stays in insertion order
// even if it's ever re-sorted by ID.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
