package cachemanager

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/opendataregistry/regsite/internal/tracing"
)

// ReadThroughCache serves values from cache and falls back to fn on miss,
// storing successful results.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key, computing and storing it on miss.
// Errors from fn are returned as-is and nothing is stored. Hits and misses
// are recorded as events on the span in ctx.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	span := trace.SpanFromContext(ctx)
	keyAttr := trace.WithAttributes(attribute.String(tracing.AttrCacheKey, string(key)))

	if value, ok := r.cache.Get(ctx, key); ok {
		span.AddEvent(tracing.EventCacheHit, keyAttr)
		return value, nil
	}
	span.AddEvent(tracing.EventCacheMiss, keyAttr)

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)

	return value, nil
}

// Bypass computes a fresh value without reading or writing the cache.
func (r *ReadThroughCache[K, V, I]) Bypass(ctx context.Context, input I) (V, error) {
	return r.fn(ctx, input)
}
