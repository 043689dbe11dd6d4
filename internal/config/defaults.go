package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultAccount         = "vscode-icons"
	DefaultHost            = "https://github.com"
	DefaultProject         = "vscode-icons"
	DefaultBranch          = "master"
	DefaultDepth           = 5
	DefaultPushTimeout     = 60 * time.Second
	DefaultDaemonInterval  = time.Hour
	DefaultDebounce        = 2 * time.Second
	DefaultCatalog         = "catalog.yaml"
	DefaultOutputDir       = "."
	DefaultImagesBaseURL   = "https://github.com/vscode-icons/vscode-icons/blob/master/icons/"
	DefaultRawWikiBaseURL  = "https://raw.githubusercontent.com/wiki"
	DefaultPrecheckFiles   = "supportedExtensions.ts"
	DefaultPrecheckFolders = "supportedFolders.ts"
)

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeFile
	} else if m := ParseMode(string(c.Mode)); m != "" {
		c.Mode = m
	}
	if c.Account == "" {
		c.Account = DefaultAccount
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Project == "" {
		c.Project = DefaultProject
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.Depth == 0 {
		c.Depth = DefaultDepth
	}
	if c.PushTimeout == "" {
		c.PushTimeout = DefaultPushTimeout.String()
	}
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "wikilist")
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Catalog == "" {
		c.Catalog = DefaultCatalog
	}
	if c.ImagesBaseURL == "" {
		c.ImagesBaseURL = DefaultImagesBaseURL
	}
	if c.RawWikiBaseURL == "" {
		c.RawWikiBaseURL = DefaultRawWikiBaseURL
	}
	// The files list is long enough that it is published in small fonts.
	if c.Compact.Files == nil {
		c.Compact.Files = boolPtr(true)
	}
	if c.Compact.Folders == nil {
		c.Compact.Folders = boolPtr(false)
	}
	if c.Precheck.Files == "" {
		c.Precheck.Files = DefaultPrecheckFiles
	}
	if c.Precheck.Folders == "" {
		c.Precheck.Folders = DefaultPrecheckFolders
	}
	if c.Daemon.Interval == "" {
		c.Daemon.Interval = DefaultDaemonInterval.String()
	}
	if c.Daemon.Debounce == "" {
		c.Daemon.Debounce = DefaultDebounce.String()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func boolPtr(b bool) *bool { return &b }
