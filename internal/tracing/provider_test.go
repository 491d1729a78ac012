package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, ExporterFile, cfg.Exporter)
	require.Empty(t, cfg.FilePath)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "regsite", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	ctx, span := provider.Tracer().Start(context.Background(), "test-span")
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsValid(), "no-op spans carry no context")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    ExporterFile,
		FilePath:    tracePath,
		ServiceName: "test-service",
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	ctx, root := StartStage(context.Background(), provider.Tracer(), SpanBuild)
	_, child := StartStage(ctx, provider.Tracer(), SpanLoad)
	EndStage(child, nil)
	EndStage(root, nil)

	require.NoError(t, provider.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 2)
	require.Equal(t, SpanLoad, records[0].Name)
	require.Equal(t, SpanBuild, records[1].Name)
	require.Equal(t, records[1].SpanID, records[0].ParentSpanID)
	require.Equal(t, records[1].TraceID, records[0].TraceID)
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})
	require.NoError(t, err)

	ctx, span := provider.Tracer().Start(context.Background(), "correlate")
	require.True(t, span.SpanContext().IsValid())
	require.NotEmpty(t, TraceID(ctx))
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "file exporter without path",
			cfg:     Config{Enabled: true, Exporter: ExporterFile},
			wantErr: "file_path required",
		},
		{
			name:    "unknown exporter",
			cfg:     Config{Enabled: true, Exporter: "zipkin"},
			wantErr: "unsupported exporter type: zipkin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.cfg)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewProvider_FileExporterUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: ExporterFile,
		FilePath: filepath.Join(blocker, "traces.jsonl"),
	})
	require.ErrorContains(t, err, "create file exporter")
}
