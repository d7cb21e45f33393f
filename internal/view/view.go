// Package view projects the in-memory model into view-model structs for the
// feed, detail and admin templates. Everything here is a pure function of
// (model, now) — no I/O, no locking — which keeps the rendering logic
// testable without a server.
//
// Escaping of user-supplied text (titles, descriptions, authors, tags,
// comments, code) is done by html/template at render time; these structs
// carry the raw strings.
package view

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/satriadev/codeshare/internal/model"
)

// PreviewLines is how many lines of code a feed card shows before the
// truncation marker.
const PreviewLines = 10

// Relative-age bucket thresholds, in seconds.
const (
	minuteSeconds = 60
	hourSeconds   = 3600
	daySeconds    = 86400
	monthSeconds  = 2592000
)

// TimeAgo renders a timestamp's age relative to now: "just now" under a
// minute, then minute/hour/day buckets, then months.
func TimeAgo(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < minuteSeconds:
		return "just now"
	case seconds < hourSeconds:
		return plural(seconds/minuteSeconds, "minute")
	case seconds < daySeconds:
		return plural(seconds/hourSeconds, "hour")
	case seconds < monthSeconds:
		return plural(seconds/daySeconds, "day")
	default:
		return plural(seconds/monthSeconds, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Initial returns the upper-cased first rune of an author's name, for the
// avatar badge. Empty names get "?".
func Initial(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// CodePreview returns the first PreviewLines lines of code, with a
// truncation marker appended when the code is longer.
func CodePreview(code string) string {
	lines := strings.Split(code, "\n")
	if len(lines) <= PreviewLines {
		return code
	}
	return strings.Join(lines[:PreviewLines], "\n") + "\n..."
}

// FeedCard is one summary card on the feed page.
type FeedCard struct {
	Post          model.Post
	TimeAgo       string
	Initial       string
	LanguageLabel string
	Preview       string
	CommentCount  int
}

// Feed builds the feed cards in the order the posts are stored — insertion
// is always at the front, so the feed is newest first.
func Feed(posts []model.Post, commentCounts map[int]int, now time.Time) []FeedCard {
	cards := make([]FeedCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, FeedCard{
			Post:          p,
			TimeAgo:       TimeAgo(p.CreatedAt, now),
			Initial:       Initial(p.Author),
			LanguageLabel: strings.ToUpper(string(p.Language)),
			Preview:       CodePreview(p.Code),
			CommentCount:  commentCounts[p.ID],
		})
	}
	return cards
}

// CommentView is one rendered comment on the detail page.
type CommentView struct {
	Comment model.Comment
	TimeAgo string
}

// Detail is the full single-post page: complete code body, metadata and the
// comment list (the template shows an empty-state message when there are no
// comments).
type Detail struct {
	Post          model.Post
	TimeAgo       string
	Initial       string
	LanguageLabel string
	Comments      []CommentView
	CommentCount  int
}

// NewDetail builds the detail view for one post and ITS comments — the
// comment list always belongs to the post being viewed.
func NewDetail(post model.Post, comments []model.Comment, now time.Time) Detail {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			Comment: c,
			TimeAgo: TimeAgo(c.CreatedAt, now),
		})
	}
	return Detail{
		Post:          post,
		TimeAgo:       TimeAgo(post.CreatedAt, now),
		Initial:       Initial(post.Author),
		LanguageLabel: strings.ToUpper(string(post.Language)),
		Comments:      views,
		CommentCount:  len(views),
	}
}

// AdminRow is one post in the flat admin list, with every counter visible.
type AdminRow struct {
	Post          model.Post
	TimeAgo       string
	LanguageLabel string
	CommentCount  int
}

// AdminList builds the admin rows for all posts.
func AdminList(posts []model.Post, commentCounts map[int]int, now time.Time) []AdminRow {
	rows := make([]AdminRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, AdminRow{
			Post:          p,
			TimeAgo:       TimeAgo(p.CreatedAt, now),
			LanguageLabel: strings.ToUpper(string(p.Language)),
			CommentCount:  commentCounts[p.ID],
		})
	}
	return rows
}
