package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/satriadev/codeshare/internal/auth"
	"github.com/satriadev/codeshare/internal/board"
	"github.com/satriadev/codeshare/internal/view"
)

// PageHandler renders the three server-side pages: feed, post detail and
// the admin panel.
//
// Each page template is parsed together with base.html into its own set —
// every page defines a "content" block, and separate sets keep those
// definitions from clobbering each other. Parsing happens once at startup;
// html/template's contextual escaping covers every user-supplied string
// (titles, authors, tags, comments, code) at render time.
type PageHandler struct {
	templates map[string]*template.Template
	board     *board.Board
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewPageHandler parses the page templates from templateDir.
func NewPageHandler(templateDir string, b *board.Board, tokens *auth.TokenService, logger *slog.Logger) (*PageHandler, error) {
	pages := []string{"feed.html", "post.html", "admin.html"}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &PageHandler{
		templates: templates,
		board:     b,
		tokens:    tokens,
		logger:    logger,
	}, nil
}

func (h *PageHandler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates[page].ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleFeed serves the feed: one summary card per post, newest first.
//
// HTTP: GET /
func (h *PageHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	cards := view.Feed(h.board.Posts(), h.board.CommentCounts(), time.Now())
	h.render(w, "feed.html", map[string]any{
		"Title": "CodeShare",
		"Cards": cards,
	})
}

// HandleDetail serves one post in full, with its comment list, and counts
// the view. The view-counter write failing is logged but doesn't block the
// page — the visitor asked to read, not to write.
//
// HTTP: GET /posts/{id}
func (h *PageHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, comments, err := h.board.View(r.Context(), id)
	if post == nil {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Warn("view counter not saved", slog.String("error", err.Error()))
	}

	detail := view.NewDetail(*post, comments, time.Now())
	h.render(w, "post.html", map[string]any{
		"Title":  post.Title + " — CodeShare",
		"Detail": detail,
	})
}

// HandleAdmin serves the admin panel: the unlock form when the session is
// locked, the full post list with edit/delete affordances once unlocked.
// There is no programmatic way back to locked — only cookie expiry.
//
// HTTP: GET /admin
func (h *PageHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	unlocked := auth.IsAdmin(r, h.tokens)

	data := map[string]any{
		"Title":    "Admin — CodeShare",
		"Unlocked": unlocked,
	}
	if unlocked {
		data["Rows"] = view.AdminList(h.board.Posts(), h.board.CommentCounts(), time.Now())
	}
	h.render(w, "admin.html", data)
}
