package aggregate

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/opendataregistry/regsite/internal/cachemanager"
	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/log"
	"github.com/opendataregistry/regsite/internal/tracing"
)

const (
	rankedKey = "collection:ranked"
	indexKey  = "collection:index"
)

// Collection memoizes the ranked collection and its index for one build.
// Construct one per build; nothing is shared between instances.
//
// Not safe for concurrent use.
type Collection struct {
	results *cachemanager.ReadThroughCache[string, *Result, dataset.Mode]
	indexes *cachemanager.ReadThroughCache[string, *dataset.Index, []*dataset.Record]
	tracer  trace.Tracer
}

// NewCollection creates an empty cache over builder.
func NewCollection(builder *Builder) *Collection {
	resultStore := cachemanager.NewInMemoryCacheManager[string, *Result](
		"collection", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
	indexStore := cachemanager.NewInMemoryCacheManager[string, *dataset.Index](
		"collection-index", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)

	c := &Collection{tracer: builder.tracer}
	c.results = cachemanager.NewReadThroughCache[string, *Result, dataset.Mode](resultStore, builder.Build, false)
	c.indexes = cachemanager.NewReadThroughCache[string, *dataset.Index, []*dataset.Record](indexStore, c.buildIndex, false)
	return c
}

func (c *Collection) buildIndex(ctx context.Context, records []*dataset.Record) (*dataset.Index, error) {
	_, span := tracing.StartStage(ctx, c.tracer, tracing.SpanIndex,
		attribute.Int(tracing.AttrRecords, len(records)))
	defer tracing.EndStage(span, nil)

	idx := dataset.BuildIndex(records)
	log.Info(log.CatIndex, "index built", "tags", len(idx.Tags), "dates", len(idx.Dates))
	return idx, nil
}

// Get returns the canonical collection.
//
// With ignoreRank false the ranked collection is computed once and the same
// slice, holding the same record pointers, is returned on every later call.
// With ignoreRank true an alphabetical collection is computed from a fresh
// load every time; the cache is neither read nor written.
func (c *Collection) Get(ctx context.Context, ignoreRank bool) ([]*dataset.Record, error) {
	if ignoreRank {
		res, err := c.results.Bypass(ctx, dataset.ModeAlphabetical)
		if err != nil {
			return nil, err
		}
		return res.Records, nil
	}

	res, err := c.Result(ctx)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Result returns the memoized ranked build result.
func (c *Collection) Result(ctx context.Context) (*Result, error) {
	return c.results.Get(ctx, rankedKey, dataset.ModeRanked, cachemanager.NoExpiration)
}

// Index returns the memoized tag and date index over the ranked collection.
func (c *Collection) Index(ctx context.Context) (*dataset.Index, error) {
	records, err := c.Get(ctx, false)
	if err != nil {
		return nil, err
	}
	return c.indexes.Get(ctx, indexKey, records, cachemanager.NoExpiration)
}
