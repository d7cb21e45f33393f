// Package server wires the application together: board, store, handlers,
// middleware and routes, plus server start and graceful shutdown.
//
// This is the composition root — every dependency chain is assembled here
// (store → board → handlers → routes) so the rest of the codebase stays
// free of wiring, and main.go stays minimal.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/satriadev/codeshare/internal/auth"
	"github.com/satriadev/codeshare/internal/board"
	"github.com/satriadev/codeshare/internal/config"
	"github.com/satriadev/codeshare/internal/handler"
	"github.com/satriadev/codeshare/internal/middleware"
	"github.com/satriadev/codeshare/internal/store"
)

// Server holds the router and the resources it owns. A store backend that
// needs closing (the sqlite one) is closed during shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	board  *board.Board
	closer io.Closer
}

// New assembles the server. The store is injected — main decides which
// backend (or the misconfigured stand-in) based on the config.
func New(cfg *config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		board:  board.New(st, logger),
	}
	if closer, ok := st.(io.Closer); ok {
		s.closer = closer
	}

	// The board mirrors the store snapshot; an empty or unreachable store
	// just means an empty board, so this cannot fail on "no data".
	if err := s.board.Refresh(context.Background()); err != nil {
		return nil, fmt.Errorf("loading initial snapshot: %w", err)
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route map:
//
//	GET    /                        feed page
//	GET    /posts/{id}              post detail page
//	GET    /admin                   admin panel page
//	POST   /api/admin/unlock        submit the admin secret
//	POST   /api/posts               publish            (admin)
//	PUT    /api/posts/{id}          update             (admin)
//	DELETE /api/posts/{id}          delete             (admin)
//	DELETE /api/posts               clear all          (admin)
//	GET    /api/export              export JSON        (admin)
//	POST   /api/refresh             re-pull snapshot   (admin)
//	POST   /api/posts/{id}/like     like
//	POST   /api/posts/{id}/comments comment
//	GET    /api/posts/{id}/download code file download
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	tokens, err := auth.NewTokenService(s.sessionSecret())
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	pages, err := handler.NewPageHandler(s.cfg.TemplateDir, s.board, tokens, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	boardHandler := handler.NewBoardHandler(s.board, s.logger)
	adminHandler := handler.NewAdminHandler(s.cfg.AdminSecret, tokens, s.logger)

	s.router.Get("/", pages.HandleFeed)
	s.router.Get("/posts/{id}", pages.HandleDetail)
	s.router.Get("/admin", pages.HandleAdmin)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/admin/unlock", adminHandler.HandleUnlock)

		r.Post("/posts/{id}/like", boardHandler.HandleLike)
		r.Post("/posts/{id}/comments", boardHandler.HandleComment)
		r.Get("/posts/{id}/download", boardHandler.HandleDownload)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokens))
			r.Post("/posts", boardHandler.HandlePublish)
			r.Put("/posts/{id}", boardHandler.HandleUpdate)
			r.Delete("/posts/{id}", boardHandler.HandleDelete)
			r.Delete("/posts", boardHandler.HandleClearAll)
			r.Get("/export", boardHandler.HandleExport)
			r.Post("/refresh", boardHandler.HandleRefresh)
		})
	})

	return nil
}

// sessionSecret returns the configured session signing key, or a random
// per-process one. With a random key, admin sessions don't survive a
// restart — acceptable for a single-admin board.
func (s *Server) sessionSecret() []byte {
	if s.cfg.SessionSecret != "" {
		return []byte(s.cfg.SessionSecret)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		// Never starts with an all-zero signing key.
		panic(fmt.Sprintf("generating session secret: %v", err))
	}
	s.logger.Warn("SESSION_SECRET not set — admin sessions will not survive a restart")
	return secret
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the store.
func (s *Server) Start() error {
	if s.closer != nil {
		defer s.closer.Close()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("backend", s.cfg.StoreBackend),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
