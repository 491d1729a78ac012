// Package config provides configuration types and defaults for regsite.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/opendataregistry/regsite/internal/flags"
	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/paths"
	"github.com/opendataregistry/regsite/internal/tracing"
)

// Config holds all configuration options for regsite.
type Config struct {
	DataDir   string          `mapstructure:"data_dir"`
	OutputDir string          `mapstructure:"output_dir"`
	BaseURL   string          `mapstructure:"base_url"`
	Site      SiteConfig      `mapstructure:"site"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
	UI        UIConfig        `mapstructure:"ui"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
	Log       LogConfig       `mapstructure:"log"`
	Flags     map[string]bool `mapstructure:"flags"`
}

// SiteConfig holds values rendered into every page.
type SiteConfig struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// OutputsConfig toggles individual build artifacts.
type OutputsConfig struct {
	HTML    bool `mapstructure:"html"`
	RSS     bool `mapstructure:"rss"`
	Sitemap bool `mapstructure:"sitemap"`
	YAML    bool `mapstructure:"yaml"`
	NDJSON  bool `mapstructure:"ndjson"`
	SQLite  bool `mapstructure:"sqlite"`
}

// UIConfig holds terminal output options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// LogConfig controls the debug log.
type LogConfig struct {
	File  string `mapstructure:"file"`  // empty disables file logging
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = paths.DefaultTracesFilePath()

	return Config{
		OutputDir: "dist",
		BaseURL:   "https://registry.opendata.aws",
		Site: SiteConfig{
			Title:       "Registry of Open Data on AWS",
			Description: "This registry exists to help people discover and share datasets that are available via AWS resources.",
		},
		Outputs: OutputsConfig{
			HTML:    true,
			RSS:     true,
			Sitemap: true,
			YAML:    true,
			NDJSON:  true,
			SQLite:  false,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
		},
		Tracing: tc,
		Log: LogConfig{
			Level: "info",
		},
		Flags: map[string]bool{
			flags.FlagCollabPages:  true,
			flags.FlagServicePages: false,
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if err := ValidateBaseURL(cfg.BaseURL); err != nil {
		return err
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	switch cfg.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", cfg.UI.MarkdownStyle)
	}
	return nil
}

// ValidateBaseURL requires an absolute http(s) URL without a trailing slash.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http or https URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host, got %q", raw)
	}
	if len(u.Path) > 0 && u.Path[len(u.Path)-1] == '/' {
		return fmt.Errorf("base_url must not end with a slash, got %q", raw)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}

	if tc.Enabled {
		if tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == tracing.ExporterOTLP && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# regsite configuration

# Root of the data sources, one directory per source with a datasets/ tree.
# Overridden by --data-dir and REGSITE_DATA_DIR.
# data_dir: ./data-sources

# Where the site is written
output_dir: dist

# Absolute URL the site is served from (no trailing slash)
base_url: https://registry.opendata.aws

site:
  title: Registry of Open Data on AWS
  description: This registry exists to help people discover and share datasets that are available via AWS resources.

# Build artifacts
outputs:
  html: true      # overview, detail, tag, usage example and change log pages
  rss: true       # rss.xml, newest datasets first
  sitemap: true   # sitemap.txt
  yaml: true      # index.yaml digest of the collection
  ndjson: true    # index.ndjson, one dataset per line
  sqlite: false   # datasets.db for ad-hoc queries

ui:
  markdown_style: dark  # "dark" (default) or "light" for 'regsite show'

# Debug log
log:
  # file: regsite.log
  level: info  # debug, info, warn, error

# Feature flags
flags:
  collab-pages: true     # collab/<source>/ pages for sources with collab.yaml
  service-pages: false   # service/<service>/usage-examples/ pages

# Build tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/regsite/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
