// Package commands implements the wikilist CLI commands.
package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wikilist/internal/catalog"
	"git.home.luguber.info/inful/wikilist/internal/config"
	"git.home.luguber.info/inful/wikilist/internal/git"
	"git.home.luguber.info/inful/wikilist/internal/metrics"
	"git.home.luguber.info/inful/wikilist/internal/syncer"
	"git.home.luguber.info/inful/wikilist/internal/wiki"
)

// Global is shared state passed to every command.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"wikilist.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Out         string `help:"Output mode: file writes pages locally, repo commits and pushes them to the wiki (file|repo)"`
	Account     string `help:"Account owning the repository and wiki" env:"WIKILIST_ACCOUNT"`
	Token       string `help:"Access token used to push to the wiki" env:"WIKILIST_TOKEN,GH_TOKEN"`
	Catalog     string `help:"Icon catalog file (YAML or JSON)" type:"path"`
	WorkDir     string `help:"Directory holding the working copies" type:"path"`
	OutputDir   string `help:"Directory receiving pages in file mode" type:"path"`
	Compact     string `help:"Small-font rendering for both pages (auto keeps per-page defaults)" enum:"auto,on,off" default:"auto"`
	Precheck    bool   `help:"In repo mode, skip pages whose code file the HEAD commit did not touch"`
	MetricsFile string `help:"Write Prometheus text-format metrics to this file after each run" type:"path"`

	All     AllCmd     `cmd:"" default:"1" help:"Regenerate both the files and folders pages"`
	Files   FilesCmd   `cmd:"" help:"Regenerate the files page"`
	Folders FoldersCmd `cmd:"" help:"Regenerate the folders page"`
	Render  RenderCmd  `cmd:"" help:"Print the rendered table of one page to stdout"`
	Daemon  DaemonCmd  `cmd:"" help:"Keep the pages in sync on a schedule"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(c.Verbose, "info", "text")
	return nil
}

// setupLogging installs the default slog logger. verbose forces debug level.
func setupLogging(verbose bool, level, format string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// LoadConfig loads the config file and applies flag overrides. The file is
// optional unless a non-default path was given.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config, c.Config != config.DefaultPath)
	if err != nil {
		return nil, err
	}
	c.applyOverrides(cfg)
	setupLogging(c.Verbose, cfg.Logging.Level, cfg.Logging.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CLI) applyOverrides(cfg *config.Config) {
	if c.Out != "" {
		cfg.Mode = config.Mode(c.Out)
		if m := config.ParseMode(c.Out); m != "" {
			cfg.Mode = m
		}
	}
	if c.Account != "" {
		cfg.Account = c.Account
	}
	if c.Token != "" {
		cfg.Token = c.Token
	}
	if c.Catalog != "" {
		cfg.Catalog = c.Catalog
	}
	if c.WorkDir != "" {
		cfg.WorkDir = c.WorkDir
	}
	if c.OutputDir != "" {
		cfg.OutputDir = c.OutputDir
	}
	switch strings.ToLower(c.Compact) {
	case "on":
		on := true
		cfg.Compact.Files, cfg.Compact.Folders = &on, &on
	case "off":
		off := false
		cfg.Compact.Files, cfg.Compact.Folders = &off, &off
	}
	if c.Precheck {
		cfg.Precheck.Enabled = true
	}
	if c.MetricsFile != "" {
		cfg.Metrics.File = c.MetricsFile
	}
}

// app bundles the components built from one configuration.
type app struct {
	cfg          *config.Config
	orchestrator *syncer.Orchestrator
	recorder     *metrics.PrometheusRecorder
}

func newApp(cfg *config.Config) *app {
	client := git.NewClient(git.Credentials{Username: cfg.AuthUsername(), Token: cfg.Token}).
		WithIdentity(git.Identity{Name: cfg.Identity.Name, Email: cfg.Identity.Email}).
		WithPushTimeout(cfg.PushTimeoutDuration())
	if cfg.Logging.Level == "debug" {
		client.WithProgress(os.Stderr)
	}

	a := &app{cfg: cfg}
	a.orchestrator = syncer.New(cfg, client, catalog.NewFileSource(cfg.Catalog), wiki.NewHTTPSource(cfg.RawPageURL, nil))
	if cfg.Metrics.File != "" {
		a.recorder = metrics.NewPrometheusRecorder(nil)
		a.orchestrator.WithRecorder(a.recorder)
	}
	return a
}

// flushMetrics writes the metrics textfile when configured.
func (a *app) flushMetrics() {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.WriteTextfile(a.cfg.Metrics.File); err != nil {
		slog.Warn("Failed to write metrics", slog.String("error", err.Error()))
	}
}
