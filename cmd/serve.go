package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/site"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serveCmd runs the portfolio site.
var serveCmd = &cobra.Command{
	Use:   "serve [loc.csv]",
	Short: "Serve the site with the meta page and JSON API.",
	Long: `Start an HTTP server with the home, projects, resume, contact and
meta pages, a JSON API over the line log and Prometheus metrics.

Endpoints:
  /api/stats /api/commits /api/selection /api/files /api/story
  /api/projects /api/nav /api/theme /healthz /metrics

Color scheme preferences are kept in the cache backend. The server stops on
SIGINT or SIGTERM after in-flight requests finish.

Examples:
  locmeta serve
  locmeta serve --listen :8080 --base-path /portfolio/ --contact-email me@example.com`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, commits, err := core.LoadDataset(cfg)
		if err != nil {
			contract.LogFatal("Cannot load line log", err)
		}
		projects, err := core.LoadProjectsFile(cfg.ProjectsFile)
		if err != nil {
			contract.LogWarn("Serving without projects", err)
		}

		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stderr)

		srv, err := site.New(site.Options{
			Config:   cfg,
			Records:  records,
			Commits:  commits,
			Projects: projects,
			Prefs:    storeManager.GetPrefStore(),
			Logger:   logger,
		})
		if err != nil {
			contract.LogFatal("Cannot build site", err)
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.WithFields(logrus.Fields{
			"addr":    cfg.ListenAddr,
			"commits": len(commits),
			"lines":   len(records),
		}).Info("Serving")
		if err := srv.ListenAndServe(ctx); err != nil {
			contract.LogFatal("Server failed", err)
		}
		logger.Info("Server stopped")
	},
}
