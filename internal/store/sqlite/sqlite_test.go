package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/satriadev/codeshare/internal/apperror"
	"github.com/satriadev/codeshare/internal/model"
)

// ":memory:" gives every test its own throwaway database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot(title string) *model.Snapshot {
	return &model.Snapshot{
		Posts: []model.Post{{
			ID:       1,
			Title:    title,
			Author:   "Satria",
			Language: model.LangPython,
			Code:     "print('hi')",
			Tags:     []string{"code"},
		}},
		Comments: map[int][]model.Comment{
			1: {{ID: "c1", Author: "Reader", Text: "Nice!"}},
		},
		LastUpdated: time.Now(),
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	snap, rev, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rev != "" {
		t.Errorf("revision = %q, want empty for a fresh store", rev)
	}
	if len(snap.Posts) != 0 || len(snap.Comments) != 0 {
		t.Error("a fresh store must load as an empty board")
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	s := newTestStore(t)

	rev, err := s.Save(context.Background(), testSnapshot("Quick sort"), "")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rev == "" {
		t.Fatal("Save() must return a non-empty revision")
	}

	snap, loadedRev, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loadedRev != rev {
		t.Errorf("loaded revision = %q, want %q", loadedRev, rev)
	}
	if len(snap.Posts) != 1 || snap.Posts[0].Title != "Quick sort" {
		t.Errorf("loaded posts = %+v, want the saved post", snap.Posts)
	}
	if len(snap.Comments[1]) != 1 || snap.Comments[1][0].Text != "Nice!" {
		t.Errorf("loaded comments = %+v, want the saved comment", snap.Comments)
	}
}

func TestSave_DetectsStaleRevision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rev, err := s.Save(ctx, testSnapshot("v1"), "")
	if err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	// A second writer saves with the current revision — fine.
	rev2, err := s.Save(ctx, testSnapshot("v2"), rev)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if rev2 == rev {
		t.Error("a successful save must produce a new revision")
	}

	// The first writer tries again with its stale token.
	if _, err := s.Save(ctx, testSnapshot("v3"), rev); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("stale Save() error = %v, want ErrConflict", err)
	}

	// The conflict must not have clobbered the stored snapshot.
	snap, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Posts[0].Title != "v2" {
		t.Errorf("stored title = %q, want %q (the conflicting write must not land)", snap.Posts[0].Title, "v2")
	}
}

func TestSave_FirstWriteRequiresEmptyRevision(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save(context.Background(), testSnapshot("v1"), "bogus"); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Save() with a made-up revision on an empty store: error = %v, want ErrConflict", err)
	}
}
