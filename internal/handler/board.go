// Package handler contains the HTTP handlers: JSON API endpoints for every
// board mutation, and the server-rendered pages in pages.go.
//
// Handlers parse requests, call the board, and translate outcomes to HTTP.
// They hold no state of their own and never touch the post/comment
// collections directly.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/satriadev/codeshare/internal/board"
)

// BoardHandler exposes the board's mutations over the JSON API.
type BoardHandler struct {
	board  *board.Board
	logger *slog.Logger
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(b *board.Board, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{board: b, logger: logger}
}

// postRequest is the JSON body for publish and update.
type postRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	Code        string   `json:"code"`
}

func (r postRequest) input() board.PostInput {
	return board.PostInput{
		Title:       r.Title,
		Description: r.Description,
		Author:      r.Author,
		Language:    r.Language,
		Tags:        r.Tags,
		Code:        r.Code,
	}
}

// postID extracts and parses the {id} path parameter.
func postID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// HandlePublish creates a new post.
//
// HTTP: POST /api/posts (admin)
func (h *BoardHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid publish JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	post, err := h.board.Publish(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate replaces the editable fields of an existing post.
//
// HTTP: PUT /api/posts/{id} (admin)
func (h *BoardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	post, err := h.board.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post and all its comments.
//
// HTTP: DELETE /api/posts/{id} (admin)
func (h *BoardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.board.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearAll wipes the whole board.
//
// HTTP: DELETE /api/posts (admin)
func (h *BoardHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.board.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLike increments a post's like counter by one.
//
// HTTP: POST /api/posts/{id}/like
func (h *BoardHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	likes, err := h.board.Like(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

// commentRequest is the JSON body for a new comment.
type commentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// HandleComment appends a comment to a post.
//
// HTTP: POST /api/posts/{id}/comments
func (h *BoardHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	comment, err := h.board.AddComment(r.Context(), id, req.Author, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// HandleDownload serves a post's raw code as a file download and bumps the
// download counter. The file name is the title with underscores plus the
// language's extension (unknown languages fall back to .txt).
//
// The counter write happening to fail does not block the download itself —
// the user asked for the file, they get the file. The failure is logged.
//
// HTTP: GET /api/posts/{id}/download
func (h *BoardHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, filename, err := h.board.Download(r.Context(), id)
	if post == nil {
		writeError(w, err)
		return
	}
	if err != nil {
		h.logger.Warn("download counter not saved", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(post.Code))
}

// HandleExport serves the full board as a downloadable JSON file named with
// the current date. Export reads only the in-memory model — it works even
// when the store is down.
//
// HTTP: GET /api/export (admin)
func (h *BoardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	export := h.board.Export()
	filename := fmt.Sprintf("codeshare-export-%s.json", time.Now().Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		h.logger.Error("failed to encode export", slog.String("error", err.Error()))
	}
}

// HandleRefresh discards the in-memory state and re-pulls the snapshot.
//
// HTTP: POST /api/refresh (admin)
func (h *BoardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"posts": len(h.board.Posts())})
}
