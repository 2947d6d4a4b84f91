// Package server hosts interactive sky sessions over HTTP.
//
// Each session owns one [viewer.Viewer] whose layout ticks on its own
// goroutine until the session is deleted or the server is closed. Clients
// click, refresh filters and fetch frames through a small JSON API.
package server

import (
	"context"
	"image/color"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/gincla/nightsky/pkg/errors"
	"github.com/gincla/nightsky/pkg/filter"
	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/render/svg"
	"github.com/gincla/nightsky/pkg/viewer"
)

const (
	// DefaultTickInterval approximates one animation frame.
	DefaultTickInterval = 16 * time.Millisecond

	// DefaultMaxSessions bounds concurrently live sessions.
	DefaultMaxSessions = 64

	// DefaultIdleTimeout is how long a session lives without requests.
	DefaultIdleTimeout = 30 * time.Minute
)

// Options configures a Server. Loader is required.
type Options struct {
	Loader viewer.GraphLoader
	Logger *log.Logger

	Width, Height int
	Background    color.Color

	Seed          uint64
	Threshold     float64
	RenderOptions []render.Option
	Bounds        filter.Bounds

	TickInterval time.Duration
	MaxSessions  int
	IdleTimeout  time.Duration
}

// Server manages sessions and serves the HTTP API.
type Server struct {
	opts   Options
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
	now      func() time.Time
}

// New creates a server with no sessions.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Width <= 0 {
		opts.Width = 960
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Server{
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/graph", s.handleGraph)
			r.Get("/frame.png", s.handleFramePNG)
			r.Get("/frame.svg", s.handleFrameSVG)
			r.Post("/click", s.handleClick)
			r.Get("/tooltip", s.handleTooltip)
			r.Post("/filter", s.handleFilter)
			r.Delete("/", s.handleDeleteSession)
		})
	})
	return r
}

// =============================================================================
// Session lifecycle
// =============================================================================

var (
	errTooManySessions = errors.New(errors.ErrCodeInvalidInput, "session limit reached")
	errClosed          = errors.New(errors.ErrCodeInternal, "server is closed")
)

// Open loads jsonFile into a new session and starts its layout loop.
func (s *Server) Open(ctx context.Context, jsonFile string) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", errClosed
	}
	if len(s.sessions) >= s.opts.MaxSessions {
		s.mu.Unlock()
		return "", errTooManySessions
	}
	s.mu.Unlock()

	surface := svg.New(float64(s.opts.Width), float64(s.opts.Height), svg.WithBackground(s.opts.Background))
	v := viewer.New(viewer.Options{
		Surface:       surface,
		Loader:        s.opts.Loader,
		Logger:        s.logger,
		Seed:          s.opts.Seed,
		Threshold:     s.opts.Threshold,
		RenderOptions: s.opts.RenderOptions,
		Bounds:        s.opts.Bounds,
	})
	if err := v.Load(ctx, jsonFile); err != nil {
		return "", err
	}

	sess := newSession(uuid.NewString(), v, s.now(), s.opts.IdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errClosed
	}
	if len(s.sessions) >= s.opts.MaxSessions {
		return "", errTooManySessions
	}
	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(sess.done)
		_ = v.Run(runCtx, s.opts.TickInterval)
	}()

	s.logger.Info("session opened", "id", sess.id, "jsonFile", jsonFile)
	return sess.id, nil
}

// Viewer returns the viewer of session id.
func (s *Server) Viewer(id string) (*viewer.Viewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.expired(s.now()) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess.touch(s.now())
	return sess.viewer, nil
}

// Sessions returns the ids of live sessions.
func (s *Server) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// CloseSession stops the loop of session id and forgets it.
func (s *Server) CloseSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess.stop()
	s.logger.Info("session closed", "id", id, "age", s.now().Sub(sess.created).Round(time.Millisecond))
	return nil
}

// Cleanup closes every session idle past its expiry and returns how many
// were closed.
func (s *Server) Cleanup() int {
	now := s.now()
	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.expired(now) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.stop()
		s.logger.Info("session expired", "id", sess.id)
	}
	return len(stale)
}

// Janitor runs Cleanup every interval until ctx is done.
func (s *Server) Janitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// Close stops every session loop. Later Open calls fail.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	for id, sess := range s.sessions {
		sess.cancel()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
