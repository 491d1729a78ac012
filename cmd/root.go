package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opendataregistry/regsite/internal/aggregate"
	"github.com/opendataregistry/regsite/internal/config"
	"github.com/opendataregistry/regsite/internal/loader"
	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/paths"
)

const localConfigPath = ".regsite/config.yaml"

var (
	version = "dev"
	cfgFile string
	dataDir string
	cfg     config.Config

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "regsite",
	Short: "Build the open data registry site from YAML dataset descriptors",
	Long: `regsite reads dataset descriptors from one or more data sources, merges
them into a single ranked collection and renders a static site with feeds
and machine-readable indexes.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .regsite/config.yaml, then ~/.config/regsite/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "",
		"root of the data sources (default: $"+paths.DataDirEnv+" or ./"+paths.DefaultDataDir+")")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("output_dir", defaults.OutputDir)
	viper.SetDefault("base_url", defaults.BaseURL)
	viper.SetDefault("site.title", defaults.Site.Title)
	viper.SetDefault("site.description", defaults.Site.Description)
	viper.SetDefault("outputs.html", defaults.Outputs.HTML)
	viper.SetDefault("outputs.rss", defaults.Outputs.RSS)
	viper.SetDefault("outputs.sitemap", defaults.Outputs.Sitemap)
	viper.SetDefault("outputs.yaml", defaults.Outputs.YAML)
	viper.SetDefault("outputs.ndjson", defaults.Outputs.NDJSON)
	viper.SetDefault("outputs.sqlite", defaults.Outputs.SQLite)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("flags", defaults.Flags)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	// REGSITE_DATA_DIR, REGSITE_OUTPUTS_SQLITE, ...
	viper.SetEnvPrefix("REGSITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("data_dir", paths.DataDirEnv)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .regsite/config.yaml (current directory)
		// 2. ~/.config/regsite/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else if userPath := paths.UserConfigPath(); userPath != "" {
			viper.AddConfigPath(filepath.Dir(userPath))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .regsite/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
}

// setup validates the configuration and starts the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Log.File != "" {
		cleanup, err := log.Init(cfg.Log.File)
		if err != nil {
			return err
		}
		logCleanup = cleanup
	} else {
		logCleanup = log.InitWriter(nil)
	}
	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	log.Debug(log.CatConfig, "Configuration loaded", "file", viper.ConfigFileUsed(), "command", cmd.Name())
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return nil
}

// resolvedDataDir applies --data-dir, then data_dir from config or env.
func resolvedDataDir() string {
	return paths.ResolveDataDir(dataDir, cfg.DataDir)
}

// openCollection creates a collection over the resolved data root.
func openCollection(opts ...aggregate.BuilderOption) (*aggregate.Collection, string, error) {
	dir := resolvedDataDir()
	fsys, err := loader.DirFS(dir)
	if err != nil {
		return nil, dir, err
	}
	return aggregate.NewCollection(aggregate.NewBuilder(fsys, opts...)), dir, nil
}

// configPath is where settings changed from the CLI are saved.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return localConfigPath
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
