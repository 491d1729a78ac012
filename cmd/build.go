package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/opendataregistry/regsite/internal/aggregate"
	"github.com/opendataregistry/regsite/internal/flags"
	"github.com/opendataregistry/regsite/internal/infrastructure/sqlite"
	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/site"
	"github.com/opendataregistry/regsite/internal/tracing"
)

var (
	buildOut     string
	buildBaseURL string
	buildVerbose bool
	buildSQLite  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the output directory",
	Long: `Load every data source, merge and rank the datasets, and write the site.

Examples:
  # Build with settings from the config file
  regsite build

  # Build fixture data into a scratch directory, echoing the log
  regsite build --data-dir tests/data-sources --out /tmp/site --verbose

  # Also export datasets.db
  regsite build --sqlite`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default: output_dir from config)")
	buildCmd.Flags().StringVar(&buildBaseURL, "base-url", "", "absolute URL the site is served from")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "echo log lines to stderr")
	buildCmd.Flags().BoolVar(&buildSQLite, "sqlite", false, "also export datasets.db")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	if buildVerbose {
		done := echoLog(ctx, cmd.ErrOrStderr())
		defer func() {
			cancel()
			<-done
		}()
	}

	outDir := cfg.OutputDir
	if buildOut != "" {
		outDir = buildOut
	}
	baseURL := cfg.BaseURL
	if buildBaseURL != "" {
		baseURL = buildBaseURL
	}
	outputs := cfg.Outputs
	if buildSQLite {
		outputs.SQLite = true
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if serr := provider.Shutdown(shutdownCtx); serr != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", serr)
		}
	}()

	buildID := uuid.NewString()
	collection, dir, err := openCollection(aggregate.WithTracer(provider.Tracer()))
	if err != nil {
		return err
	}

	ctx, span := tracing.StartStage(ctx, provider.Tracer(), tracing.SpanRun,
		attribute.String(tracing.AttrBuildID, buildID),
		attribute.String(tracing.AttrDataDir, dir),
		attribute.String(tracing.AttrOutputDir, outDir),
	)
	defer func() { tracing.EndStage(span, err) }()

	log.Info(log.CatRender, "Build started", "build", buildID, "data", dir, "out", outDir, "trace", tracing.TraceID(ctx))

	s, err := site.New(collection, site.Options{
		OutputDir: outDir,
		Info: site.SiteInfo{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     strings.TrimSuffix(baseURL, "/"),
			BuildID:     buildID,
		},
		Outputs:         outputs,
		Flags:           flags.New(cfg.Flags),
		Tracer:          provider.Tracer(),
		ExporterFactory: openSQLiteExporter,
	})
	if err != nil {
		return err
	}

	report, err := s.Build(ctx)
	if err != nil {
		log.ErrorErr(log.CatRender, "Build failed", err, "build", buildID)
		return err
	}

	res, err := collection.Result(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %d datasets from %d sources (%d duplicates, %d deprecated)\n",
		successStyle.Render("✓"), res.Stats.Records, res.Stats.Sources, res.Stats.Duplicates, res.Stats.Deprecated)
	_, _ = fmt.Fprintf(out, "%s %d pages, %d files written to %s\n",
		successStyle.Render("✓"), len(report.Pages), len(report.Files), outDir)
	_, _ = fmt.Fprintln(out, subtleStyle.Render("build "+buildID))
	return nil
}

func openSQLiteExporter(path string) (site.Exporter, func() error, error) {
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, nil, err
	}
	return db.Exporter(), db.Close, nil
}

// echoLog copies log entries to w until ctx is done. The returned channel
// is closed once the listener has drained.
func echoLog(ctx context.Context, w io.Writer) <-chan struct{} {
	done := make(chan struct{})
	events := log.NewListener(ctx)
	if events == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		for ev := range events {
			line := strings.TrimRight(ev.Payload, "\n")
			_, _ = fmt.Fprint(w, logLineStyle(line).Render(line)+"\n")
		}
	}()
	return done
}

func logLineStyle(line string) lipgloss.Style {
	switch {
	case strings.Contains(line, "[ERROR]"):
		return errorStyle
	case strings.Contains(line, "[WARN]"):
		return warnStyle
	case strings.Contains(line, "[DEBUG]"):
		return subtleStyle
	default:
		return lipgloss.NewStyle()
	}
}
