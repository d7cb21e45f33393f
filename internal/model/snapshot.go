package model

import "time"

// Snapshot is the full serialized application state exchanged with the
// snapshot store: every post, every comment list keyed by post ID, and the
// time of the last write. The whole thing is written back on every mutation —
// the store is a dumb versioned blob, not a database.
//
// encoding/json marshals int map keys as JSON strings and parses them back,
// so the wire format is {"comments": {"1": [...], "2": [...]}}.
type Snapshot struct {
	Posts       []Post            `json:"posts"`
	Comments    map[int][]Comment `json:"comments"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

// EmptySnapshot returns a snapshot with no posts and no comments.
// Used when the store has no data yet (or is unreachable on read).
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Posts:    []Post{},
		Comments: map[int][]Comment{},
	}
}

// Normalize replaces nil collections with empty ones. A snapshot fetched
// from the store may omit either field entirely; downstream code should
// never have to nil-check.
func (s *Snapshot) Normalize() {
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	if s.Comments == nil {
		s.Comments = map[int][]Comment{}
	}
}

// NextID derives the next post identifier: one plus the maximum existing
// post ID, or 1 for an empty board.
func (s *Snapshot) NextID() int {
	next := 1
	for _, p := range s.Posts {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// ExportData is the downloadable export of the full board, independent of
// the snapshot store.
type ExportData struct {
	Posts         []Post            `json:"posts"`
	Comments      map[int][]Comment `json:"comments"`
	ExportedAt    time.Time         `json:"exportedAt"`
	TotalPosts    int               `json:"totalPosts"`
	TotalComments int               `json:"totalComments"`
}
