package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/loader"
	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/tracing"
)

// Result is one computed collection.
type Result struct {
	Records []*dataset.Record
	Collabs []Collab
	Stats   Stats
}

// Collab is a collaboration declared by a source's collab.yaml.
type Collab struct {
	Source string
	loader.Collab
}

// Stats summarizes a build of the collection.
type Stats struct {
	Sources    int
	Documents  int
	Duplicates int
	Deprecated int
	Records    int
}

// Builder computes the collection from a data root. Every call to Build
// reads the data root again.
type Builder struct {
	fsys   fs.FS
	tracer trace.Tracer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTracer sets the tracer for stage spans.
func WithTracer(t trace.Tracer) BuilderOption {
	return func(b *Builder) { b.tracer = t }
}

// NewBuilder creates a Builder reading sources from fsys.
func NewBuilder(fsys fs.FS, opts ...BuilderOption) *Builder {
	b := &Builder{fsys: fsys}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs load, merge, deprecated filtering, validation, normalization
// and ordering. Any failure aborts the build with no partial result.
func (b *Builder) Build(ctx context.Context, mode dataset.Mode) (res *Result, err error) {
	ctx, span := tracing.StartStage(ctx, b.tracer, tracing.SpanBuild,
		attribute.String(tracing.AttrOrderMode, mode.String()))
	defer func() { tracing.EndStage(span, err) }()

	snap, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	merged, deprecated := b.merge(ctx, snap)

	records := merged.Ordered()
	if err := b.validate(ctx, records); err != nil {
		return nil, err
	}

	b.normalize(ctx, records)
	b.order(ctx, records, mode)

	res = &Result{
		Records: records,
		Collabs: collabs(snap),
		Stats: Stats{
			Sources:    len(snap.Sources),
			Documents:  snap.DocumentCount(),
			Duplicates: merged.Duplicates,
			Deprecated: deprecated,
			Records:    len(records),
		},
	}
	span.SetAttributes(attribute.Int(tracing.AttrRecords, len(records)))
	log.Info(log.CatRank, "collection built",
		"mode", mode,
		"records", res.Stats.Records,
		"duplicates", res.Stats.Duplicates,
		"deprecated", res.Stats.Deprecated)
	return res, nil
}

func (b *Builder) load(ctx context.Context) (snap *loader.Snapshot, err error) {
	_, span := tracing.StartStage(ctx, b.tracer, tracing.SpanLoad)
	defer func() { tracing.EndStage(span, err) }()

	snap, err = loader.Load(b.fsys)
	if err != nil {
		var perr *loader.ParseError
		if errors.As(err, &perr) {
			span.SetAttributes(attribute.String(tracing.AttrErrorSource, perr.Path))
		}
		log.ErrorErr(log.CatLoad, "load failed", err)
		return nil, fmt.Errorf("load sources: %w", err)
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrSources, len(snap.Sources)),
		attribute.Int(tracing.AttrDocuments, snap.DocumentCount()),
	)
	return snap, nil
}

func (b *Builder) merge(ctx context.Context, snap *loader.Snapshot) (*Merged, int) {
	_, span := tracing.StartStage(ctx, b.tracer, tracing.SpanMerge)
	defer func() { tracing.EndStage(span, nil) }()

	merged := Merge(snap)
	deprecated := merged.DropDeprecated()

	span.SetAttributes(
		attribute.Int(tracing.AttrDuplicates, merged.Duplicates),
		attribute.Int(tracing.AttrDeprecated, deprecated),
		attribute.Int(tracing.AttrRecords, len(merged.Slugs)),
	)
	log.Info(log.CatMerge, "merge complete", "slugs", len(merged.Slugs), "duplicates", merged.Duplicates, "deprecated", deprecated)
	return merged, deprecated
}

func (b *Builder) validate(ctx context.Context, records []*dataset.Record) (err error) {
	_, span := tracing.StartStage(ctx, b.tracer, tracing.SpanValidate)
	defer func() { tracing.EndStage(span, err) }()

	for _, r := range records {
		if err := dataset.Validate(r); err != nil {
			log.ErrorErr(log.CatMerge, "invalid record", err, "slug", r.Slug, "sources", r.Sources)
			return fmt.Errorf("validate: %w", err)
		}
	}
	return nil
}

func (b *Builder) normalize(ctx context.Context, records []*dataset.Record) {
	_, span := tracing.StartStage(ctx, b.tracer, tracing.SpanNormalize)
	defer func() { tracing.EndStage(span, nil) }()

	for _, r := range records {
		dataset.Normalize(r)
	}
}

func (b *Builder) order(ctx context.Context, records []*dataset.Record, mode dataset.Mode) {
	_, span := tracing.StartStage(ctx, b.tracer, tracing.SpanOrder,
		attribute.String(tracing.AttrOrderMode, mode.String()))
	defer func() { tracing.EndStage(span, nil) }()

	dataset.Order(records, mode)
	log.Debug(log.CatRank, "ordered collection", "mode", mode, "records", len(records))
}

func collabs(snap *loader.Snapshot) []Collab {
	var out []Collab
	for _, src := range snap.Sources {
		if src.Collab != nil {
			out = append(out, Collab{Source: src.Name, Collab: *src.Collab})
		}
	}
	return out
}
