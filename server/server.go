// Package server exposes the playground over HTTP: three browser views
// backed by JSON endpoints, plus an MCP surface for agents.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/chain"
	"github.com/promptlab-hq/promptlab/core/registry"
	"github.com/promptlab-hq/promptlab/core/session"
	"github.com/promptlab-hq/promptlab/core/settings"
	"github.com/promptlab-hq/promptlab/llm"
)

// sweepInterval is how often idle sessions are pruned.
const sweepInterval = 15 * time.Minute

// Server wires the settings store, model registry, and completion
// client behind the three browser views.
type Server struct {
	version  string
	cfg      *core.Config
	settings *settings.Store
	registry *registry.Registry
	client   *llm.Client
	sessions *session.Manager
}

// New creates a Server. All collaborators are injected; the server owns
// only the session set.
func New(version string, cfg *core.Config, store *settings.Store, reg *registry.Registry, client *llm.Client) *Server {
	return &Server{
		version:  version,
		cfg:      cfg,
		settings: store,
		registry: reg,
		client:   client,
		sessions: session.NewManager(session.DefaultTTL, func() *chain.Controller {
			return chain.New(client)
		}),
	}
}

// SetAddr overrides the configured listen address.
func (s *Server) SetAddr(addr string) {
	s.cfg.Server.Addr = addr
}

// Handler returns the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)

	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/prompt", s.handlePromptGen)

	mux.HandleFunc("POST /api/admin/login", s.handleAdminLogin)
	mux.HandleFunc("POST /api/admin/logout", s.handleAdminLogout)
	mux.HandleFunc("POST /api/admin/save", s.handleAdminSave)

	mux.HandleFunc("POST /api/chain/start", s.handleChainStart)
	mux.HandleFunc("POST /api/chain/continue", s.handleChainContinue)
	mux.HandleFunc("POST /api/chain/reset", s.handleChainReset)

	return mux
}

// Run serves HTTP on the configured address until ctx is cancelled,
// watching the settings file for external edits and sweeping idle
// sessions in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("serving playground", "addr", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := s.settings.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := s.sessions.Sweep(); n > 0 {
					slog.Debug("swept idle sessions", "count", n)
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
