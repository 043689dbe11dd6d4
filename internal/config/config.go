// Package config loads wikilist configuration from an optional YAML file,
// .env files and the process environment.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// DefaultPath is the config file looked up when none is given explicitly.
const DefaultPath = "wikilist.yaml"

// Mode selects where regenerated pages go.
type Mode string

const (
	// ModeFile writes pages to the output directory without touching git.
	ModeFile Mode = "file"
	// ModeRepo synchronizes pages into the wiki repository and pushes them.
	ModeRepo Mode = "repo"
)

// ParseMode normalizes raw into a Mode. Unknown values yield "".
func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeFile:
		return ModeFile
	case ModeRepo:
		return ModeRepo
	default:
		return ""
	}
}

// Config is the complete wikilist configuration.
type Config struct {
	Mode    Mode   `yaml:"out"`
	Account string `yaml:"account"`
	Token   string `yaml:"token"`
	// Username used for basic auth next to the token; defaults to Account.
	Username string `yaml:"username"`

	Host    string `yaml:"host"`
	Project string `yaml:"project"`
	Branch  string `yaml:"branch"`
	// Depth of shallow clones. 0 selects the default, negative disables shallow cloning.
	Depth       int    `yaml:"depth"`
	PushTimeout string `yaml:"push_timeout"`

	WorkDir   string `yaml:"work_dir"`
	OutputDir string `yaml:"output_dir"`
	Catalog   string `yaml:"catalog"`

	ImagesBaseURL  string `yaml:"images_base_url"`
	RawWikiBaseURL string `yaml:"raw_wiki_base_url"`

	// SkipDisabled omits catalog entries flagged disabled from the tables.
	SkipDisabled bool `yaml:"skip_disabled"`

	Compact  CompactConfig  `yaml:"compact"`
	Precheck PrecheckConfig `yaml:"precheck"`
	Identity IdentityConfig `yaml:"identity"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CompactConfig selects small-font rendering per page.
type CompactConfig struct {
	Files   *bool `yaml:"files"`
	Folders *bool `yaml:"folders"`
}

// PrecheckConfig enables the code-repository change pre-check. Files and
// Folders name the code file, by base name, whose change in the HEAD commit
// marks the respective page as possibly stale.
type PrecheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Files   string `yaml:"files"`
	Folders string `yaml:"folders"`
}

// Target returns the code file checked before regenerating the page of kind.
func (p PrecheckConfig) Target(kind string) string {
	if kind == "folders" {
		return p.Folders
	}
	return p.Files
}

// IdentityConfig overrides the bot commit identity.
type IdentityConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// DaemonConfig configures the daemon command.
type DaemonConfig struct {
	// Schedule is a cron expression; when set it replaces Interval.
	Schedule     string `yaml:"schedule"`
	Interval     string `yaml:"interval"`
	WatchCatalog bool   `yaml:"watch_catalog"`
	Debounce     string `yaml:"debounce"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// File receives a Prometheus text-format snapshot after every run when set.
	File string `yaml:"file"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from path. A missing file is an error only when
// required is true; otherwise defaults are returned. ${VAR} references in the
// file are expanded from the environment (after .env files were loaded).
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, errors.ConfigError("failed to parse configuration file").
					WithCause(err).
					WithContext("path", path).
					Build()
			}
		case stderrors.Is(err, os.ErrNotExist):
			if required {
				return nil, errors.NotFoundError("configuration file not found").
					WithCause(err).
					WithContext("path", path).
					Build()
			}
		default:
			return nil, errors.IOError("failed to read configuration file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// PushTimeoutDuration returns the parsed push timeout.
func (c *Config) PushTimeoutDuration() time.Duration {
	return parseDuration(c.PushTimeout, DefaultPushTimeout)
}

// DaemonInterval returns the parsed daemon sync interval.
func (c *Config) DaemonInterval() time.Duration {
	return parseDuration(c.Daemon.Interval, DefaultDaemonInterval)
}

// DaemonDebounce returns the parsed catalog watch debounce.
func (c *Config) DaemonDebounce() time.Duration {
	return parseDuration(c.Daemon.Debounce, DefaultDebounce)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}

// CloneDepth returns the depth to pass to clones; 0 means full history.
func (c *Config) CloneDepth() int {
	if c.Depth < 0 {
		return 0
	}
	return c.Depth
}

// CompactFor reports whether the page of the given kind ("files"/"folders") renders compact.
func (c *Config) CompactFor(kind string) bool {
	switch kind {
	case "files":
		return c.Compact.Files != nil && *c.Compact.Files
	case "folders":
		return c.Compact.Folders != nil && *c.Compact.Folders
	default:
		return false
	}
}

// RepoURL is the code repository URL <host>/<account>/<project>.
func (c *Config) RepoURL() string {
	return strings.TrimRight(c.Host, "/") + "/" + c.Account + "/" + c.Project
}

// WikiURL is the wiki repository URL <host>/<account>/<project>.wiki.
func (c *Config) WikiURL() string {
	return c.RepoURL() + ".wiki"
}

// RawPageURL is the URL serving the raw Markdown of a wiki page.
func (c *Config) RawPageURL(page string) string {
	return strings.TrimRight(c.RawWikiBaseURL, "/") + "/" + c.Account + "/" + c.Project + "/" + page
}

// WikiPath is the local working copy of the wiki repository.
func (c *Config) WikiPath() string {
	return filepath.Join(c.WorkDir, c.Project+".wiki")
}

// CodePath is the local working copy of the code repository.
func (c *Config) CodePath() string {
	return filepath.Join(c.WorkDir, c.Project)
}

// AuthUsername is the username paired with the token for basic auth.
func (c *Config) AuthUsername() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Account
}
