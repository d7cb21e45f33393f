// Package board owns the application state: the ordered post list, the
// comment lists keyed by post ID, and the running post-ID counter.
//
// Every mutation goes through a Board method — handlers never touch the
// collections directly. Each method validates its input, applies the change
// in memory, then serializes the WHOLE snapshot and saves it to the store.
// The save's outcome is returned to the caller: a failed write leaves the
// in-memory state ahead of the store (until the next good save) and the
// handler reports the failure instead of pretending the write landed.
//
// The mutex only guards the in-memory collections. Snapshots are deep-copied
// under the lock and written to the store outside it, so a hung store call
// blocks the handler that issued it, not the whole board.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/satriadev/codeshare/internal/apperror"
	"github.com/satriadev/codeshare/internal/model"
	"github.com/satriadev/codeshare/internal/store"
)

// Placeholder values applied when the optional fields are left empty.
const (
	DefaultDescription = "No description provided."
	DefaultTag         = "code"
)

// Validation constants.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
	MaxCodeLength   = 100000 // ~100KB of code
)

// Board is the coordinating state object.
type Board struct {
	store  store.Store
	logger *slog.Logger

	mu       sync.Mutex
	posts    []model.Post
	comments map[int][]model.Comment
	nextID   int
	revision store.Revision
}

// PostInput carries the editable fields of a post, for both publish and
// update. Tags are already split; empty entries are dropped here.
type PostInput struct {
	Title       string
	Description string
	Author      string
	Language    string
	Tags        []string
	Code        string
}

// New creates an empty Board backed by the given store. Call Refresh to
// pull the current snapshot before serving.
func New(st store.Store, logger *slog.Logger) *Board {
	return &Board{
		store:    st,
		logger:   logger,
		posts:    []model.Post{},
		comments: map[int][]model.Comment{},
		nextID:   1,
	}
}

// Refresh discards the in-memory state and rebuilds it from the store.
// An empty or unreachable store yields zero posts, zero comments and
// next-ID 1; otherwise the next ID is one plus the maximum post ID.
func (b *Board) Refresh(ctx context.Context) error {
	snap, rev, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	b.mu.Lock()
	b.posts = snap.Posts
	b.comments = snap.Comments
	b.nextID = snap.NextID()
	b.revision = rev
	b.mu.Unlock()

	b.logger.Info("board refreshed",
		slog.Int("posts", len(snap.Posts)),
		slog.Int("nextID", snap.NextID()),
	)
	return nil
}

// Publish validates and adds a new post at the FRONT of the list, then
// saves. On a save failure the post stays on the in-memory board and the
// error is returned alongside it.
func (b *Board) Publish(ctx context.Context, in PostInput) (*model.Post, error) {
	post, err := buildPost(in)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	post.ID = b.nextID
	b.nextID++
	b.posts = append([]model.Post{*post}, b.posts...)
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	b.logger.Info("post published",
		slog.Int("id", post.ID),
		slog.String("title", post.Title),
		slog.String("author", post.Author),
	)
	return post, b.persist(ctx, snap, known)
}

// Update replaces the editable fields of an existing post in place,
// refreshes its update timestamp and leaves the counters and creation
// time untouched.
func (b *Board) Update(ctx context.Context, id int, in PostInput) (*model.Post, error) {
	replacement, err := buildPost(in)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return nil, apperror.NotFound("post", id)
	}
	p := &b.posts[idx]
	p.Title = replacement.Title
	p.Description = replacement.Description
	p.Author = replacement.Author
	p.Language = replacement.Language
	p.Tags = replacement.Tags
	p.Code = replacement.Code
	p.UpdatedAt = time.Now()
	updated := *p
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	b.logger.Info("post updated", slog.Int("id", id))
	return &updated, b.persist(ctx, snap, known)
}

// Delete removes a post and its entire comment list as one in-memory step.
func (b *Board) Delete(ctx context.Context, id int) error {
	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return apperror.NotFound("post", id)
	}
	b.posts = append(b.posts[:idx], b.posts[idx+1:]...)
	delete(b.comments, id)
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	b.logger.Info("post deleted", slog.Int("id", id))
	return b.persist(ctx, snap, known)
}

// ClearAll empties both collections and resets the ID counter to 1.
func (b *Board) ClearAll(ctx context.Context) error {
	b.mu.Lock()
	b.posts = []model.Post{}
	b.comments = map[int][]model.Comment{}
	b.nextID = 1
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	b.logger.Info("board cleared")
	return b.persist(ctx, snap, known)
}

// Like increments a post's like counter by exactly one and returns the new
// count. No dedup, no per-user tracking.
func (b *Board) Like(ctx context.Context, id int) (int, error) {
	return b.increment(ctx, id, func(p *model.Post) int {
		p.Likes++
		return p.Likes
	})
}

// View returns the post with its comments, incrementing the view counter.
// The comments belong to the requested ID, never to some previously opened
// post.
func (b *Board) View(ctx context.Context, id int) (*model.Post, []model.Comment, error) {
	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return nil, nil, apperror.NotFound("post", id)
	}
	b.posts[idx].Views++
	post := b.posts[idx]
	comments := append([]model.Comment(nil), b.comments[id]...)
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	return &post, comments, b.persist(ctx, snap, known)
}

// Download increments the download counter and returns the post together
// with the file name the code should be served as: the title with
// whitespace collapsed to underscores plus the language's extension.
func (b *Board) Download(ctx context.Context, id int) (*model.Post, string, error) {
	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return nil, "", apperror.NotFound("post", id)
	}
	b.posts[idx].Downloads++
	post := b.posts[idx]
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	filename := fmt.Sprintf("%s.%s",
		strings.Join(strings.Fields(post.Title), "_"), post.Language.Ext())
	return &post, filename, b.persist(ctx, snap, known)
}

// AddComment appends a comment to a post's list with a fresh ID and
// timestamp. Author and text are required.
func (b *Board) AddComment(ctx context.Context, postID int, author, text string) (*model.Comment, error) {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	if author == "" {
		return nil, apperror.ValidationFailed("author", "comment author is required")
	}
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}

	comment := model.Comment{
		ID:        xid.New().String(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}

	b.mu.Lock()
	if b.indexLocked(postID) < 0 {
		b.mu.Unlock()
		return nil, apperror.NotFound("post", postID)
	}
	b.comments[postID] = append(b.comments[postID], comment)
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	b.logger.Info("comment added", slog.Int("postID", postID), slog.String("id", comment.ID))
	return &comment, b.persist(ctx, snap, known)
}

// Export copies the full model into a downloadable export with aggregate
// counts. It never touches the store.
func (b *Board) Export() model.ExportData {
	b.mu.Lock()
	snap, _ := b.snapshotLocked()
	b.mu.Unlock()

	total := 0
	for _, list := range snap.Comments {
		total += len(list)
	}
	return model.ExportData{
		Posts:         snap.Posts,
		Comments:      snap.Comments,
		ExportedAt:    time.Now(),
		TotalPosts:    len(snap.Posts),
		TotalComments: total,
	}
}

// Posts returns a copy of the post list, newest first.
func (b *Board) Posts() []model.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Post(nil), b.posts...)
}

// Comments returns a copy of one post's comment list.
func (b *Board) Comments(postID int) []model.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Comment(nil), b.comments[postID]...)
}

// CommentCounts returns the number of comments per post ID.
func (b *Board) CommentCounts() map[int]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[int]int, len(b.comments))
	for id, list := range b.comments {
		counts[id] = len(list)
	}
	return counts
}

// NextID returns the identifier the next published post will receive.
func (b *Board) NextID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextID
}

// Revision returns the last snapshot revision confirmed by the store.
func (b *Board) Revision() store.Revision {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}

// buildPost validates a PostInput and assembles a post with zero counters
// and fresh timestamps. The ID is assigned by the caller under the lock.
func buildPost(in PostInput) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	code := strings.TrimSpace(in.Code)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxTitleLength))
	}
	if code == "" {
		return nil, apperror.ValidationFailed("code", "post code is required")
	}
	if len(code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if author == "" {
		return nil, apperror.ValidationFailed("author", "author name is required")
	}
	if len(author) > MaxAuthorLength {
		return nil, apperror.ValidationFailed("author",
			fmt.Sprintf("author name must be %d characters or less", MaxAuthorLength))
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = DefaultDescription
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = []string{DefaultTag}
	}

	now := time.Now()
	return &model.Post{
		Title:       title,
		Description: description,
		Author:      author,
		Language:    model.NormalizeLanguage(strings.TrimSpace(in.Language)),
		Code:        code,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// increment applies fn to one post under the lock and persists.
func (b *Board) increment(ctx context.Context, id int, fn func(*model.Post) int) (int, error) {
	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return 0, apperror.NotFound("post", id)
	}
	count := fn(&b.posts[idx])
	snap, known := b.snapshotLocked()
	b.mu.Unlock()

	return count, b.persist(ctx, snap, known)
}

// indexLocked finds a post by ID. Callers must hold the mutex.
func (b *Board) indexLocked(id int) int {
	for i := range b.posts {
		if b.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked deep-copies the current state into a snapshot so the store
// write can happen outside the lock. Callers must hold the mutex.
func (b *Board) snapshotLocked() (*model.Snapshot, store.Revision) {
	snap := &model.Snapshot{
		Posts:       append([]model.Post(nil), b.posts...),
		Comments:    make(map[int][]model.Comment, len(b.comments)),
		LastUpdated: time.Now(),
	}
	for id, list := range b.comments {
		snap.Comments[id] = append([]model.Comment(nil), list...)
	}
	return snap, b.revision
}

// persist writes the snapshot to the store. Mutation always precedes this
// call; on failure the in-memory state keeps the mutation and the error is
// surfaced so the caller can tell the user the write did NOT land.
func (b *Board) persist(ctx context.Context, snap *model.Snapshot, known store.Revision) error {
	rev, err := b.store.Save(ctx, snap, known)
	if err != nil {
		b.logger.Error("snapshot save failed", slog.String("error", err.Error()))
		return fmt.Errorf("saving snapshot: %w", err)
	}

	b.mu.Lock()
	b.revision = rev
	b.mu.Unlock()
	return nil
}
