// Package github implements the snapshot store against the GitHub contents
// API: the whole board lives in one JSON file in a repository, and the file's
// content sha is the revision token.
//
// Reads go through the raw-content endpoint (no auth, no rate-limit token
// burn); writes go through the contents API with the access token. The raw
// endpoint doesn't expose the sha, so Save re-fetches it from the contents
// API immediately before the PUT — carrying the caller's last known revision
// only as a fallback when that lookup fails. GitHub rejects a PUT with a
// stale sha, but we do not re-fetch and retry: the write's outcome is
// reported once and that's it.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/satriadev/codeshare/internal/apperror"
	"github.com/satriadev/codeshare/internal/model"
	"github.com/satriadev/codeshare/internal/store"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"
)

// Options configures a Store. Owner, Repo and Token come straight from the
// required config keys; the base URLs exist so tests can point the store at
// an httptest server.
type Options struct {
	Owner      string
	Repo       string
	Branch     string // defaults to "main"
	File       string // blob path inside the repo, defaults to "db.json"
	Token      string
	APIBaseURL string
	RawBaseURL string
}

// Store talks to one snapshot blob in one GitHub repository.
type Store struct {
	opts   Options
	api    *http.Client // token-authenticated, for the contents API
	raw    *http.Client // plain, for raw-content reads
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New creates a GitHub-backed snapshot store.
//
// The write client is built with oauth2.StaticTokenSource so the
// Authorization header is attached by the transport, not by every request
// we assemble by hand. The raw-read client deliberately carries no token —
// raw.githubusercontent.com doesn't need it and secrets shouldn't travel
// where they aren't required.
func New(opts Options, logger *slog.Logger) *Store {
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	if opts.File == "" {
		opts.File = "db.json"
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = defaultAPIBaseURL
	}
	if opts.RawBaseURL == "" {
		opts.RawBaseURL = defaultRawBaseURL
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	return &Store{
		opts:   opts,
		api:    oauth2.NewClient(context.Background(), src),
		raw:    &http.Client{},
		logger: logger,
	}
}

func (s *Store) rawURL() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		s.opts.RawBaseURL, s.opts.Owner, s.opts.Repo, s.opts.Branch, s.opts.File)
}

func (s *Store) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		s.opts.APIBaseURL, s.opts.Owner, s.opts.Repo, s.opts.File)
}

// Load fetches the snapshot from the raw-content endpoint.
//
// Network failure, a non-2xx status (including 404 before the first save)
// and an unparseable body are all the same case: no data yet. The board
// starts empty and the next successful Save creates the blob.
func (s *Store) Load(ctx context.Context) (*model.Snapshot, store.Revision, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.rawURL(), nil)
	if err != nil {
		return model.EmptySnapshot(), "", nil
	}

	resp, err := s.raw.Do(req)
	if err != nil {
		s.logger.Warn("snapshot read failed, starting empty", slog.String("error", err.Error()))
		return model.EmptySnapshot(), "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Info("no snapshot in store yet", slog.Int("status", resp.StatusCode))
		return model.EmptySnapshot(), "", nil
	}

	var snap model.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		s.logger.Warn("snapshot unparseable, starting empty", slog.String("error", err.Error()))
		return model.EmptySnapshot(), "", nil
	}
	snap.Normalize()

	// The raw endpoint has no sha header; Save looks the revision up itself.
	return &snap, "", nil
}

// currentSHA asks the contents API for the blob's current sha. Empty string
// means the file doesn't exist yet (first save) or the lookup failed.
func (s *Store) currentSHA(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.contentsURL(), nil)
	if err != nil {
		return ""
	}
	resp, err := s.api.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var file struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return ""
	}
	return file.SHA
}

// putRequest is the contents-API write body. SHA is omitted on first save —
// sending an empty sha makes GitHub reject the request.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// Save serializes the snapshot, base64-encodes it and PUTs it over the
// current blob version. Returns the new content sha as the revision.
func (s *Store) Save(ctx context.Context, snap *model.Snapshot, known store.Revision) (store.Revision, error) {
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", apperror.StoreWriteFailed(fmt.Errorf("encoding snapshot: %w", err))
	}

	sha := s.currentSHA(ctx)
	if sha == "" {
		sha = string(known)
	}

	body, err := json.Marshal(putRequest{
		Message: "Update codeshare board - " + time.Now().UTC().Format(time.RFC3339),
		Content: base64.StdEncoding.EncodeToString(payload),
		SHA:     sha,
	})
	if err != nil {
		return "", apperror.StoreWriteFailed(fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return "", apperror.StoreWriteFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.api.Do(req)
	if err != nil {
		return "", apperror.StoreWriteFailed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error("snapshot write rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("file", s.opts.File),
		)
		return "", apperror.StoreWriteFailed(fmt.Errorf("contents API returned %d", resp.StatusCode))
	}

	var result struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// The write landed; we just couldn't read the new sha. The next
		// Save re-fetches it anyway.
		return "", nil
	}
	return store.Revision(result.Content.SHA), nil
}
