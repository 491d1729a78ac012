package site

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/testutil"
)

func TestNewUsageViews_DoesNotMutateRecords(t *testing.T) {
	with := testutil.NewRecord("With", testutil.Slug("with"), testutil.Examples("Tools", "a", "b"))
	without := testutil.NewRecord("Without", testutil.Slug("without"))
	before := with.Fields()

	views := NewUsageViews([]*dataset.Record{without, with})

	require.Len(t, views, 1)
	require.Same(t, with, views[0].Record)
	require.Equal(t, 2, views[0].ExamplesCount)
	require.Equal(t, before, with.Fields())
	require.NotContains(t, with.Extra, "examplesCount")
}

func TestGroupByService(t *testing.T) {
	a := testutil.NewRecord("A", testutil.Slug("a"))
	a.DataAtWork = dataset.DataAtWork{
		{Name: "Tutorials", Entries: []dataset.Entry{
			{Title: "t1", Services: dataset.StringList{"Amazon EC2", "AWS Lambda"}},
			{Title: "t2", Services: dataset.StringList{"amazon ec2"}},
		}},
		{Name: "Tools", Entries: []dataset.Entry{
			{Title: "tool", Services: dataset.StringList{"AWS Lambda", "AWS lambda"}},
		}},
	}
	b := testutil.NewRecord("B", testutil.Slug("b"))
	b.DataAtWork = dataset.DataAtWork{
		{Name: "Publications", Entries: []dataset.Entry{{Title: "p", Services: dataset.StringList{"Amazon EC2"}}}},
	}

	groups := GroupByService([]*dataset.Record{a, b})

	require.Len(t, groups, 2)
	require.Equal(t, "amazon-ec2", groups[0].Slug)
	require.Equal(t, "Amazon EC2", groups[0].Service)
	require.Len(t, groups[0].Views, 2)
	require.Same(t, a, groups[0].Views[0].Record)
	require.Equal(t, 2, groups[0].Views[0].ExamplesCount)
	require.Same(t, b, groups[0].Views[1].Record)

	require.Equal(t, "aws-lambda", groups[1].Slug)
	require.Len(t, groups[1].Views, 1)
	lambda := groups[1].Views[0]
	require.Equal(t, 2, lambda.ExamplesCount, "entry listing the service twice counts once")
	require.Equal(t, "Tutorials", lambda.Categories[0].Name)
	require.Equal(t, "Tools", lambda.Categories[1].Name)

	require.Len(t, a.DataAtWork[0].Entries, 2, "source record untouched")
}

func TestDateGroups(t *testing.T) {
	records := []*dataset.Record{
		testutil.NewRecord("A", testutil.Slug("a"), testutil.Added("2019-01-03")),
		testutil.NewRecord("B", testutil.Slug("b"), testutil.Added("2020-06-15")),
		testutil.NewRecord("C", testutil.Slug("c"), testutil.Added("2019-01-03")),
	}

	groups := DateGroups(dataset.BuildIndex(records))

	require.Len(t, groups, 2)
	require.Equal(t, "2020-06-15", groups[0].Date)
	require.Equal(t, "2019-01-03", groups[1].Date)
	require.Equal(t, []*dataset.Record{records[0], records[2]}, groups[1].Datasets)
}

func TestRecordsFromSource(t *testing.T) {
	a := testutil.NewRecord("A")
	a.Sources = []string{"primary", "asdi"}
	b := testutil.NewRecord("B")
	b.Sources = []string{"primary"}

	require.Equal(t, []*dataset.Record{a}, RecordsFromSource([]*dataset.Record{a, b}, "asdi"))
	require.Equal(t, []*dataset.Record{a, b}, RecordsFromSource([]*dataset.Record{a, b}, "primary"))
	require.Empty(t, RecordsFromSource([]*dataset.Record{a, b}, "other"))
}
