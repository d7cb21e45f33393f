package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/satriadev/codeshare/internal/apperror"
	"github.com/satriadev/codeshare/internal/model"
)

const (
	rawPath      = "/satria/codeshare-data/main/db.json"
	contentsPath = "/repos/satria/codeshare-data/contents/db.json"
)

// newTestStore points a Store at an httptest server standing in for both
// the raw-content host and the contents API.
func newTestStore(t *testing.T, handler http.Handler) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s := New(Options{
		Owner:      "satria",
		Repo:       "codeshare-data",
		Token:      "test-token",
		APIBaseURL: srv.URL,
		RawBaseURL: srv.URL,
	}, logger)
	return s, srv
}

// =========================================================================
// LOAD
// =========================================================================

func TestLoad_ParsesSnapshot(t *testing.T) {
	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != rawPath {
			t.Errorf("raw read hit %s, want %s", r.URL.Path, rawPath)
		}
		io.WriteString(w, `{
			"posts": [{"id": 4, "title": "Quick sort", "author": "Satria"}],
			"comments": {"4": [{"id": "c1", "author": "Reader", "text": "Nice!"}]}
		}`)
	}))

	snap, rev, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rev != "" {
		t.Errorf("revision = %q — the raw endpoint carries no sha", rev)
	}
	if len(snap.Posts) != 1 || snap.Posts[0].ID != 4 {
		t.Errorf("posts = %+v, want the fetched post", snap.Posts)
	}
	if len(snap.Comments[4]) != 1 {
		t.Errorf("comments = %+v, want the fetched comment", snap.Comments)
	}
}

func TestLoad_NotFoundMeansEmpty(t *testing.T) {
	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	snap, _, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v — absence is not an error", err)
	}
	if len(snap.Posts) != 0 || len(snap.Comments) != 0 {
		t.Error("a 404 read must yield an empty board")
	}
}

func TestLoad_NetworkFailureMeansEmpty(t *testing.T) {
	s, srv := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	snap, _, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v — network failure reads as no data", err)
	}
	if len(snap.Posts) != 0 {
		t.Error("an unreachable store must yield an empty board")
	}
}

func TestLoad_MissingFieldsDefaultEmpty(t *testing.T) {
	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"lastUpdated": "2026-08-30T10:00:00Z"}`)
	}))

	snap, _, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Posts == nil || snap.Comments == nil {
		t.Error("absent snapshot fields must default to empty collections")
	}
}

// =========================================================================
// SAVE
// =========================================================================

func TestSave_CarriesShaAndBase64Content(t *testing.T) {
	var put putRequest
	var gotAuth string

	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != contentsPath {
			t.Errorf("contents call hit %s, want %s", r.URL.Path, contentsPath)
		}
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"sha": "oldsha"}`)
		case http.MethodPut:
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&put); err != nil {
				t.Fatalf("decoding PUT body: %v", err)
			}
			io.WriteString(w, `{"content": {"sha": "newsha"}}`)
		}
	}))

	snap := &model.Snapshot{
		Posts:    []model.Post{{ID: 1, Title: "Quick sort"}},
		Comments: map[int][]model.Comment{},
	}
	rev, err := s.Save(context.Background(), snap, "")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if rev != "newsha" {
		t.Errorf("revision = %q, want the new content sha", rev)
	}
	if put.SHA != "oldsha" {
		t.Errorf("PUT sha = %q, want the freshly fetched %q", put.SHA, "oldsha")
	}
	if !strings.Contains(gotAuth, "test-token") {
		t.Errorf("Authorization = %q, want it to carry the access token", gotAuth)
	}

	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	if err != nil {
		t.Fatalf("PUT content is not valid base64: %v", err)
	}
	var stored model.Snapshot
	if err := json.Unmarshal(decoded, &stored); err != nil {
		t.Fatalf("PUT content is not the snapshot JSON: %v", err)
	}
	if len(stored.Posts) != 1 || stored.Posts[0].Title != "Quick sort" {
		t.Errorf("stored posts = %+v, want the saved post", stored.Posts)
	}
}

func TestSave_FirstWriteOmitsSha(t *testing.T) {
	var rawPut map[string]any

	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r) // blob doesn't exist yet
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&rawPut); err != nil {
				t.Fatalf("decoding PUT body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"content": {"sha": "firstsha"}}`)
		}
	}))

	if _, err := s.Save(context.Background(), model.EmptySnapshot(), ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, present := rawPut["sha"]; present {
		t.Error("the first write must omit the sha field entirely")
	}
}

func TestSave_FallsBackToKnownRevision(t *testing.T) {
	var put putRequest

	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusForbidden) // sha lookup failing
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&put)
			io.WriteString(w, `{"content": {"sha": "newsha"}}`)
		}
	}))

	if _, err := s.Save(context.Background(), model.EmptySnapshot(), "carried"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if put.SHA != "carried" {
		t.Errorf("PUT sha = %q, want the caller's revision as fallback", put.SHA)
	}
}

func TestSave_RejectionIsAWriteFailure(t *testing.T) {
	s, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"sha": "oldsha"}`)
		case http.MethodPut:
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
	}))

	_, err := s.Save(context.Background(), model.EmptySnapshot(), "")
	if !errors.Is(err, apperror.ErrStoreWrite) {
		t.Errorf("Save() error = %v, want ErrStoreWrite", err)
	}
}
