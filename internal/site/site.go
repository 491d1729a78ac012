// Package site renders the canonical dataset collection into a static site:
// HTML pages, an RSS feed, a sitemap and machine-readable digests.
package site

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/opendataregistry/regsite/internal/aggregate"
	"github.com/opendataregistry/regsite/internal/config"
	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/flags"
	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/templates"
	"github.com/opendataregistry/regsite/internal/tracing"
)

// Output file names.
const (
	FileRSS          = "rss.xml"
	FileSitemap      = "sitemap.txt"
	FileIndexYAML    = "index.yaml"
	FileDatasetsYAML = "datasets.yaml"
	FileNDJSON       = "index.ndjson"
	FileSQLite       = "datasets.db"
)

// Exporter writes the collection to an external store.
type Exporter interface {
	Export(ctx context.Context, buildID string, records []*dataset.Record) error
}

// Options configures a Site.
type Options struct {
	OutputDir string
	Info      SiteInfo
	Outputs   config.OutputsConfig
	Flags     *flags.Registry
	Tracer    trace.Tracer

	// ExporterFactory opens the SQLite export at the given path. Required
	// when Outputs.SQLite is set.
	ExporterFactory func(path string) (Exporter, func() error, error)
}

// Report lists what a build wrote, relative to the output directory.
type Report struct {
	Pages []string
	Files []string
}

// Site renders one build.
type Site struct {
	collection *aggregate.Collection
	renderer   *Renderer
	opts       Options
}

// New creates a Site over collection using the embedded templates.
func New(collection *aggregate.Collection, opts Options) (*Site, error) {
	renderer, err := NewRenderer(templates.SiteFS())
	if err != nil {
		return nil, err
	}
	return &Site{collection: collection, renderer: renderer, opts: opts}, nil
}

// Build writes every enabled output. The first failure aborts the build.
func (s *Site) Build(ctx context.Context) (report *Report, err error) {
	ctx, span := tracing.StartStage(ctx, s.opts.Tracer, tracing.SpanRender,
		attribute.String(tracing.AttrOutputDir, s.opts.OutputDir))
	defer func() { tracing.EndStage(span, err) }()

	res, err := s.collection.Result(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.collection.Index(ctx)
	if err != nil {
		return nil, err
	}

	report = &Report{}
	w := &writer{root: s.opts.OutputDir, report: report}

	if s.opts.Outputs.HTML {
		if err := s.renderPages(ctx, w, res, idx); err != nil {
			return nil, err
		}
	}
	if err := s.renderFeeds(w, res.Records, idx); err != nil {
		return nil, err
	}
	if s.opts.Outputs.SQLite {
		if err := s.export(ctx, w, res.Records); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrPages, len(report.Pages)),
		attribute.Int(tracing.AttrFiles, len(report.Files)),
	)
	log.Info(log.CatRender, "site written", "dir", s.opts.OutputDir, "pages", len(report.Pages), "files", len(report.Files))
	return report, nil
}

func (s *Site) renderPages(ctx context.Context, w *writer, res *aggregate.Result, idx *dataset.Index) error {
	info := s.opts.Info
	records := res.Records

	if err := s.page(w, "index.html", pageIndex, indexData{Site: info, Datasets: records, Tags: idx.Tags}); err != nil {
		return err
	}

	for _, r := range records {
		if err := s.page(w, path.Join(r.Slug, "index.html"), pageDetail, detailData{Site: info, Title: r.Name, Dataset: r}); err != nil {
			return err
		}
	}

	for _, tag := range idx.Tags {
		tagged := idx.RecordsWithTag(tag)
		dir := path.Join("tag", TagURL(tag))
		if err := s.page(w, path.Join(dir, "index.html"), pageTag, tagData{Site: info, Title: tag, Tag: tag, Datasets: tagged}); err != nil {
			return err
		}
		views := NewUsageViews(tagged)
		if len(views) == 0 {
			continue
		}
		data := usageData{Site: info, Title: tag + " usage examples", Heading: "Usage examples for " + tag, Views: views}
		if err := s.page(w, path.Join(dir, "usage-examples", "index.html"), pageUsage, data); err != nil {
			return err
		}
	}

	// The all-examples page lists datasets alphabetically.
	alphabetical, err := s.collection.Get(ctx, true)
	if err != nil {
		return err
	}
	usage := usageData{Site: info, Title: "Usage examples", Heading: "Usage examples", Views: NewUsageViews(alphabetical)}
	if err := s.page(w, path.Join("usage-examples", "index.html"), pageUsage, usage); err != nil {
		return err
	}

	if err := s.page(w, path.Join("change-log", "index.html"), pageChangeLog, changeLogData{Site: info, Title: "Change log", Groups: DateGroups(idx)}); err != nil {
		return err
	}

	if s.opts.Flags.Enabled(flags.FlagCollabPages) {
		for _, c := range res.Collabs {
			data := collabData{Site: info, Title: c.Name, Collab: c, Datasets: RecordsFromSource(records, c.Source)}
			if err := s.page(w, path.Join("collab", c.Source, "index.html"), pageCollab, data); err != nil {
				return err
			}
		}
	}

	if s.opts.Flags.Enabled(flags.FlagServicePages) {
		for _, g := range GroupByService(records) {
			data := usageData{Site: info, Title: g.Service + " usage examples", Heading: "Usage examples using " + g.Service, Views: g.Views}
			if err := s.page(w, path.Join("service", g.Slug, "usage-examples", "index.html"), pageUsage, data); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Site) page(w *writer, rel, tmpl string, data any) error {
	out, err := s.renderer.render(tmpl, data)
	if err != nil {
		return fmt.Errorf("page %s: %w", rel, err)
	}
	if err := w.write(rel, out); err != nil {
		return err
	}
	w.report.Pages = append(w.report.Pages, rel)
	log.Debug(log.CatRender, "page written", "path", rel)
	return nil
}

func (s *Site) renderFeeds(w *writer, records []*dataset.Record, idx *dataset.Index) error {
	outputs := s.opts.Outputs

	if outputs.RSS {
		data, err := RSS(s.opts.Info, records)
		if err != nil {
			return err
		}
		if err := w.write(FileRSS, data); err != nil {
			return err
		}
	}
	if outputs.YAML {
		data, err := IndexYAML(records, idx)
		if err != nil {
			return err
		}
		if err := w.write(FileIndexYAML, data); err != nil {
			return err
		}
		data, err = DatasetsYAML(records)
		if err != nil {
			return err
		}
		if err := w.write(FileDatasetsYAML, data); err != nil {
			return err
		}
	}
	if outputs.NDJSON {
		data, err := NDJSON(records)
		if err != nil {
			return err
		}
		if err := w.write(FileNDJSON, data); err != nil {
			return err
		}
	}
	if outputs.Sitemap {
		data, err := s.renderer.Sitemap(SitemapURLs(s.opts.Info.BaseURL, w.report.Pages))
		if err != nil {
			return err
		}
		if err := w.write(FileSitemap, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) export(ctx context.Context, w *writer, records []*dataset.Record) (err error) {
	ctx, span := tracing.StartStage(ctx, s.opts.Tracer, tracing.SpanExport)
	defer func() { tracing.EndStage(span, err) }()

	if s.opts.ExporterFactory == nil {
		return fmt.Errorf("sqlite output enabled without an exporter")
	}

	exp, closeFn, err := s.opts.ExporterFactory(filepath.Join(w.root, FileSQLite))
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("close export: %w", cerr)
		}
	}()

	if err := exp.Export(ctx, s.opts.Info.BuildID, records); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	w.report.Files = append(w.report.Files, FileSQLite)
	span.SetAttributes(attribute.Int(tracing.AttrRecords, len(records)))
	return nil
}

// SitemapURLs maps page paths to absolute URLs: "x/index.html" becomes
// baseURL + "/x/".
func SitemapURLs(baseURL string, pages []string) []string {
	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		dir := strings.TrimSuffix(p, "index.html")
		urls = append(urls, baseURL+"/"+dir)
	}
	return urls
}

// writer writes files under root and records them in the report.
type writer struct {
	root   string
	report *Report
}

func (w *writer) write(rel string, data []byte) error {
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return fmt.Errorf("write %s: path escapes output directory", rel)
	}
	if err := config.WriteFileAtomic(filepath.Join(w.root, filepath.FromSlash(rel)), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	w.report.Files = append(w.report.Files, rel)
	return nil
}
