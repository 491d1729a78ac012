package tracing

// Span names for the build pipeline. SpanRun is the root of one build
// command; collection stages are children of SpanBuild.
const (
	SpanRun       = "run"
	SpanBuild     = "build"
	SpanLoad      = "build.load"
	SpanMerge     = "build.merge"
	SpanValidate  = "build.validate"
	SpanNormalize = "build.normalize"
	SpanOrder     = "build.order"
	SpanIndex     = "build.index"
	SpanRender    = "build.render"
	SpanExport    = "build.export"
)

// Span attribute keys.
const (
	AttrBuildID     = "build.id"
	AttrDataDir     = "build.data_dir"
	AttrOutputDir   = "build.output_dir"
	AttrSources     = "load.sources"
	AttrDocuments   = "load.documents"
	AttrRecords     = "records.count"
	AttrDuplicates  = "merge.duplicates"
	AttrDeprecated  = "merge.deprecated"
	AttrOrderMode   = "order.mode"
	AttrCacheKey    = "cache.key"
	AttrPages       = "render.pages"
	AttrFiles       = "render.files"
	AttrErrorType   = "error.type"
	AttrErrorSource = "error.path"
)

// Event names recorded on build spans.
const (
	EventCacheHit  = "cache.hit"
	EventCacheMiss = "cache.miss"
)
