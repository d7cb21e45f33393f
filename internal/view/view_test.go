package view

import (
	"strings"
	"testing"
	"time"

	"github.com/satriadev/codeshare/internal/model"
)

// =========================================================================
// RELATIVE AGE
// =========================================================================

func TestTimeAgo_Buckets(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"30 seconds", 30 * time.Second, "just now"},
		{"59 seconds", 59 * time.Second, "just now"},
		{"90 seconds", 90 * time.Second, "1 minute ago"},
		{"5 minutes", 5 * time.Minute, "5 minutes ago"},
		{"2 hours", 7200 * time.Second, "2 hours ago"},
		{"25 hours", 90000 * time.Second, "1 day ago"},
		{"12 days", 12 * 24 * time.Hour, "12 days ago"},
		{"45 days", 45 * 24 * time.Hour, "1 month ago"},
		{"90 days", 90 * 24 * time.Hour, "3 months ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeAgo(now.Add(-tt.age), now); got != tt.want {
				t.Errorf("TimeAgo(-%v) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

// =========================================================================
// PROJECTION HELPERS
// =========================================================================

func TestInitial(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"satria", "S"},
		{"Budi", "B"},
		{"éclair", "É"},
		{"", "?"},
	}
	for _, tt := range tests {
		if got := Initial(tt.name); got != tt.want {
			t.Errorf("Initial(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCodePreview_ShortCodeUntouched(t *testing.T) {
	code := "line1\nline2\nline3"
	if got := CodePreview(code); got != code {
		t.Errorf("CodePreview() = %q, want the code unchanged", got)
	}
}

func TestCodePreview_TruncatesAtTenLines(t *testing.T) {
	lines := make([]string, 15)
	for i := range lines {
		lines[i] = "line"
	}
	got := CodePreview(strings.Join(lines, "\n"))

	if !strings.HasSuffix(got, "\n...") {
		t.Errorf("long code must end with a truncation marker, got %q", got)
	}
	if n := strings.Count(got, "\n"); n != PreviewLines {
		t.Errorf("preview has %d newlines, want %d (ten lines plus the marker)", n, PreviewLines)
	}
}

// =========================================================================
// VIEW MODELS
// =========================================================================

func testPost(id int, author string) model.Post {
	return model.Post{
		ID:       id,
		Title:    "t",
		Author:   author,
		Language: model.LangPython,
		Code:     "print('hi')",
		Tags:     []string{"code"},
	}
}

func TestFeed_PreservesOrderAndCounts(t *testing.T) {
	now := time.Now()
	posts := []model.Post{testPost(2, "newest"), testPost(1, "oldest")}
	counts := map[int]int{1: 3}

	cards := Feed(posts, counts, now)
	if len(cards) != 2 {
		t.Fatalf("Feed() returned %d cards, want 2", len(cards))
	}
	if cards[0].Post.ID != 2 {
		t.Error("feed order must match the post list (newest first)")
	}
	if cards[0].CommentCount != 0 || cards[1].CommentCount != 3 {
		t.Errorf("comment counts = %d, %d, want 0, 3",
			cards[0].CommentCount, cards[1].CommentCount)
	}
	if cards[0].Initial != "N" {
		t.Errorf("Initial = %q, want %q", cards[0].Initial, "N")
	}
	if cards[0].LanguageLabel != "PYTHON" {
		t.Errorf("LanguageLabel = %q, want %q", cards[0].LanguageLabel, "PYTHON")
	}
}

func TestNewDetail_UsesThePostsOwnComments(t *testing.T) {
	now := time.Now()
	comments := []model.Comment{
		{ID: "a", Author: "Reader", Text: "first", CreatedAt: now.Add(-time.Hour)},
		{ID: "b", Author: "Reader", Text: "second", CreatedAt: now},
	}

	detail := NewDetail(testPost(1, "satria"), comments, now)
	if detail.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", detail.CommentCount)
	}
	if detail.Comments[0].Comment.Text != "first" {
		t.Error("comment order must be preserved")
	}
	if detail.Comments[0].TimeAgo != "1 hour ago" {
		t.Errorf("comment TimeAgo = %q, want %q", detail.Comments[0].TimeAgo, "1 hour ago")
	}
}

func TestAdminList_IncludesEveryPost(t *testing.T) {
	now := time.Now()
	rows := AdminList([]model.Post{testPost(1, "a"), testPost(2, "b")}, map[int]int{2: 1}, now)

	if len(rows) != 2 {
		t.Fatalf("AdminList() returned %d rows, want 2", len(rows))
	}
	if rows[1].CommentCount != 1 {
		t.Errorf("CommentCount = %d, want 1", rows[1].CommentCount)
	}
}
