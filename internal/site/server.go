package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/sirupsen/logrus"
)

// Server timeouts.
const (
	serverReadTimeout     = 30 * time.Second
	serverWriteTimeout    = 60 * time.Second
	serverIdleTimeout     = 120 * time.Second
	serverShutdownTimeout = 10 * time.Second
)

// maxFormBytes bounds a contact form submission.
const maxFormBytes = 64 << 10

// Options is everything a Server serves. The dataset is shared read-only
// between requests; each request builds its own view state from it.
type Options struct {
	Config   *contract.Config
	Records  []schema.LineRecord
	Commits  []schema.Commit
	Projects []schema.Project
	Prefs    contract.KVStore
	Logger   *logrus.Logger
}

// Server is the portfolio site with the meta page and JSON API.
type Server struct {
	cfg      *contract.Config
	records  []schema.LineRecord
	commits  []schema.Commit
	projects []schema.Project
	pages    []schema.NavPage
	themes   *ThemeStore
	logger   *logrus.Logger
	metrics  *Metrics
	tmpl     map[string]*template.Template
	handler  http.Handler
}

// New builds a server over opts.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("site: config is required")
	}
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	pages := opts.Config.Pages
	if len(pages) == 0 {
		pages = DefaultPages(opts.Config.GitHubURL)
	}

	s := &Server{
		cfg:      opts.Config,
		records:  opts.Records,
		commits:  opts.Commits,
		projects: opts.Projects,
		pages:    pages,
		themes:   NewThemeStore(opts.Prefs),
		logger:   logger,
		metrics:  NewMetrics(),
		tmpl:     tmpl,
	}
	s.metrics.SetDataset(len(opts.Records), len(opts.Commits))
	s.handler = withObservability(logger, s.metrics, s.routes())
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/commits", s.handleCommits)
	mux.HandleFunc("GET /api/selection", s.handleSelection)
	mux.HandleFunc("GET /api/files", s.handleFiles)
	mux.HandleFunc("GET /api/story", s.handleStory)
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/nav", s.handleNav)
	mux.HandleFunc("GET /api/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/theme", s.handleSetTheme)

	mux.HandleFunc("/", s.handlePage)
	return mux
}

// Handler returns the root handler with logging and metrics.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()
	s.logger.WithFields(logrus.Fields{
		"addr":      listener.Addr().String(),
		"base_path": s.cfg.BasePath,
		"commits":   len(s.commits),
	}).Info("Serving site")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "commits": len(s.commits)})
}
