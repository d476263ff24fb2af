// Package server exposes Liar's Deck environments over WebSocket. Every
// connection gets its own Environment, driven by reset/step/render requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/gameid"
)

const shutdownTimeout = 5 * time.Second

// Server is the remote environment server
type Server struct {
	addr     string
	game     game.Config
	policy   game.ChallengePolicy
	upgrader websocket.Upgrader
	logger   *log.Logger
	clock    quartz.Clock
	ids      *gameid.Generator

	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

// Option configures a Server
type Option func(*Server)

// WithChallengePolicy sets the challenge policy of every session's environment
func WithChallengePolicy(p game.ChallengePolicy) Option {
	return func(s *Server) { s.policy = p }
}

// WithClock replaces the real clock used for session timestamps and pings
func WithClock(c quartz.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// NewServer creates a server that plays cfg on every connection
func NewServer(addr string, cfg game.Config, logger *log.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		addr: addr,
		game: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:   logger.WithPrefix("server"),
		clock:    quartz.NewReal(),
		sessions: make(map[*Session]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = gameid.NewGenerator(s.clock, nil)
	return s, nil
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", "sessions", s.SessionCount())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every open session
func (s *Server) Stop() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		_ = sess.Close()
	}
}

// SessionCount returns the number of connected sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	opts := []game.Option{game.WithLogger(s.logger)}
	if s.policy != nil {
		opts = append(opts, game.WithChallengePolicy(s.policy))
	}
	env, err := game.New(s.game, opts...)
	if err != nil {
		// The config was validated in NewServer
		s.logger.Error("Failed to create environment", "error", err)
		_ = conn.Close()
		return
	}

	sess := newSession(s.ids.New(gameid.Session), conn, env, s.logger, s.clock)

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("Session opened", "session", sess.ID(), "total", total)

	sess.Start()
	go func() {
		<-sess.Done()
		s.mu.Lock()
		delete(s.sessions, sess)
		total := len(s.sessions)
		s.mu.Unlock()
		s.logger.Info("Session closed", "session", sess.ID(), "steps", sess.Steps(), "duration", s.clock.Since(sess.Started()), "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
