package aggregate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/opendataregistry/regsite/internal/aggregate"
	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/loader"
	"github.com/opendataregistry/regsite/internal/testutil"
	"github.com/opendataregistry/regsite/internal/tracing"
)

func slugs(records []*dataset.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Slug
	}
	return out
}

func TestBuilder_StandardSourcesRanked(t *testing.T) {
	fsys := testutil.NewSourceBuilder(t).WithStandardSources().Build()

	res, err := aggregate.NewBuilder(fsys).Build(context.Background(), dataset.ModeRanked)
	require.NoError(t, err)

	require.Equal(t, []string{"landsat-8", "sentinel-2", "noaa-ghcn", "era5"}, slugs(res.Records))
	require.Equal(t, aggregate.Stats{
		Sources:    2,
		Documents:  6,
		Duplicates: 1,
		Deprecated: 1,
		Records:    4,
	}, res.Stats)

	landsat := res.Records[0]
	require.Equal(t, "Landsat 8", landsat.Name)
	require.Equal(t, []string{testutil.SourcePrimary, testutil.SourceASDI}, landsat.Sources)
	require.Equal(t, "Environmental Data", landsat.Metadata["ADXCategories"])
	require.Equal(t, []any{"us-west-2", "eu-west-1"}, landsat.Metadata["Regions"])
	require.Equal(t, []string{"aws-pds", "earth observation", "satellite imagery"}, landsat.Tags)

	require.Len(t, landsat.DataAtWork, 1, "empty Publications category is pruned")
	require.Equal(t, "Tutorials", landsat.DataAtWork[0].Name)
	require.Equal(t, "browsing scenes", landsat.DataAtWork[0].Entries[0].Title)

	ghcn := res.Records[2]
	require.Equal(t, dataset.CategoryTools, ghcn.DataAtWork[0].Name)

	require.Len(t, res.Collabs, 1)
	require.Equal(t, testutil.SourceASDI, res.Collabs[0].Source)
	require.Equal(t, "Amazon Sustainability Data Initiative", res.Collabs[0].Name)
}

func TestBuilder_Alphabetical(t *testing.T) {
	fsys := testutil.NewSourceBuilder(t).WithStandardSources().Build()

	res, err := aggregate.NewBuilder(fsys).Build(context.Background(), dataset.ModeAlphabetical)
	require.NoError(t, err)

	// ECMWF, Landsat, NOAA, Sentinel
	require.Equal(t, []string{"era5", "landsat-8", "noaa-ghcn", "sentinel-2"}, slugs(res.Records))
}

func TestBuilder_ParseErrorAborts(t *testing.T) {
	fsys := testutil.NewSourceBuilder(t).
		WithStandardSources().
		WithRawDataset(testutil.SourceASDI, "zz-broken", "Name: [\n").
		Build()

	res, err := aggregate.NewBuilder(fsys).Build(context.Background(), dataset.ModeRanked)
	require.Nil(t, res)

	var perr *loader.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "sustainability/datasets/zz-broken.yaml", perr.Path)
}

func TestBuilder_MissingTagsIsFatal(t *testing.T) {
	fsys := testutil.NewSourceBuilder(t).
		WithRawDataset("a", "untagged", "Name: Untagged\n").
		Build()

	_, err := aggregate.NewBuilder(fsys).Build(context.Background(), dataset.ModeRanked)
	require.ErrorIs(t, err, dataset.ErrMissingField)
	require.ErrorContains(t, err, "untagged: Tags")
}

func TestBuilder_DeprecatedRecordsAreNotValidated(t *testing.T) {
	fsys := testutil.NewSourceBuilder(t).
		WithRawDataset("a", "old", "Name: Old\nDeprecated: true\n").
		WithDataset("a", "new", "New", testutil.Tags("x")).
		Build()

	res, err := aggregate.NewBuilder(fsys).Build(context.Background(), dataset.ModeRanked)
	require.NoError(t, err)
	require.Equal(t, []string{"new"}, slugs(res.Records))
}

func TestBuilder_EmitsStageSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	fsys := testutil.NewSourceBuilder(t).WithStandardSources().Build()

	_, err := aggregate.NewBuilder(fsys, aggregate.WithTracer(tp.Tracer("test"))).
		Build(context.Background(), dataset.ModeRanked)
	require.NoError(t, err)

	var names []string
	var root sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
		if s.Name() == tracing.SpanBuild {
			root = s
		}
	}
	require.Equal(t, []string{
		tracing.SpanLoad,
		tracing.SpanMerge,
		tracing.SpanValidate,
		tracing.SpanNormalize,
		tracing.SpanOrder,
		tracing.SpanBuild,
	}, names)

	require.NotNil(t, root)
	for _, s := range recorder.Ended() {
		if s.Name() != tracing.SpanBuild {
			require.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), s.Name())
		}
	}
}
