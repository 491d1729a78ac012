package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/opendataregistry/regsite/internal/flags"
	"github.com/opendataregistry/regsite/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "dist", cfg.OutputDir)
	require.Equal(t, "https://registry.opendata.aws", cfg.BaseURL)
	require.True(t, cfg.Outputs.HTML)
	require.True(t, cfg.Outputs.NDJSON)
	require.False(t, cfg.Outputs.SQLite)
	require.False(t, cfg.Tracing.Enabled)
	require.True(t, cfg.Flags[flags.FlagCollabPages])
	require.False(t, cfg.Flags[flags.FlagServicePages])
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty output dir", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: "output_dir"},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "/registry" }, wantErr: "http or https"},
		{name: "base url without host", mutate: func(c *Config) { c.BaseURL = "https://" }, wantErr: "must include a host"},
		{name: "base url trailing slash", mutate: func(c *Config) { c.BaseURL = "https://example.com/" }, wantErr: "must not end with a slash"},
		{name: "bad markdown style", mutate: func(c *Config) { c.UI.MarkdownStyle = "neon" }, wantErr: "markdown_style"},
		{name: "sample rate above one", mutate: func(c *Config) { c.Tracing.SampleRate = 1.5 }, wantErr: "sample_rate"},
		{name: "unknown exporter", mutate: func(c *Config) { c.Tracing.Exporter = "jaeger" }, wantErr: "tracing.exporter"},
		{
			name: "file exporter without path",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = tracing.ExporterFile
				c.Tracing.FilePath = ""
			},
			wantErr: "file_path is required",
		},
		{
			name: "otlp exporter without endpoint",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = tracing.ExporterOTLP
				c.Tracing.OTLPEndpoint = ""
			},
			wantErr: "otlp_endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			require.ErrorContains(t, Validate(cfg), tt.wantErr)
		})
	}
}

func TestValidate_DisabledTracingIgnoresMissingPath(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.FilePath = ""
	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(stringsReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	def := Defaults()
	require.Equal(t, def.OutputDir, cfg.OutputDir)
	require.Equal(t, def.BaseURL, cfg.BaseURL)
	require.Equal(t, def.Site, cfg.Site)
	require.Equal(t, def.Outputs, cfg.Outputs)
	require.Equal(t, def.UI, cfg.UI)
	require.Equal(t, def.Log.Level, cfg.Log.Level)
	require.Equal(t, def.Flags, cfg.Flags)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".regsite", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
