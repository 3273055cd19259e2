// Package server implements the timeruler preview server.
//
// The server holds one timeline snapshot and serves its data, stateless
// layouts and rendered SVG rulers, plus interactive view sessions that keep
// focus and hover state between requests.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/timeruler/pkg/cache"
	"github.com/matzehuels/timeruler/pkg/pipeline"
	"github.com/matzehuels/timeruler/pkg/session"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// Config holds HTTP settings.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	RateLimit      int // requests per minute per IP, 0 disables limiting
	ViewTTL        time.Duration
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.ViewTTL == 0 {
		c.ViewTTL = session.DefaultTTL
	}
	return c
}

// Server serves one timeline snapshot over HTTP.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	base     pipeline.Options
	sessions *session.MemoryStore
	logger   *log.Logger
	renders  singleflight.Group

	mu       sync.RWMutex
	data     timeline.Data
	dataHash string
}

// New creates a server. base supplies the range, generator and ruler
// settings; per-request state is layered on top of it.
func New(runner *pipeline.Runner, base pipeline.Options, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		cfg:      cfg.withDefaults(),
		runner:   runner,
		base:     base,
		sessions: session.NewMemoryStore(),
		logger:   logger,
	}
}

// Load generates or reads the snapshot described by the base options.
func (s *Server) Load(ctx context.Context) error {
	data, err := s.runner.Generate(ctx, s.base)
	if err != nil {
		return err
	}
	s.SetData(data)
	return nil
}

// SetData replaces the served snapshot. Existing view sessions keep the
// snapshot they were created with.
func (s *Server) SetData(data timeline.Data) {
	hash := ""
	if raw, err := timeline.Marshal(data); err == nil {
		hash = cache.Hash(raw)
	}
	s.mu.Lock()
	s.data = data
	s.dataHash = hash
	s.mu.Unlock()
	s.logger.Info("timeline loaded", "days", data.TotalDays, "active", len(data.Active()), "hash", hash)
}

// Data returns the served snapshot.
func (s *Server) Data() timeline.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Server) snapshot() (timeline.Data, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.dataHash
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go s.sessions.RunCleanup(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
