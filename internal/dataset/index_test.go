package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/testutil"
)

func TestBuildIndex_TagsInFirstSeenOrder(t *testing.T) {
	records := []*dataset.Record{
		testutil.NewRecord("one", testutil.Tags("b", "a")),
		testutil.NewRecord("two", testutil.Tags("a", "c")),
	}

	idx := dataset.BuildIndex(records)

	require.Equal(t, []string{"b", "a", "c"}, idx.Tags)
}

func TestBuildIndex_TagOrderFollowsNormalizedTags(t *testing.T) {
	records := []*dataset.Record{
		testutil.NewRecord("one", testutil.Tags("Zebra", "earth observation")),
		testutil.NewRecord("two", testutil.Tags("Zebra", "Agriculture")),
	}
	for _, r := range records {
		dataset.Normalize(r)
	}

	idx := dataset.BuildIndex(records)

	require.Equal(t, []string{"earth observation", "Zebra", "Agriculture"}, idx.Tags)
	require.Equal(t, []string{"one", "two"}, names(idx.RecordsWithTag("Zebra")))
}

func TestBuildIndex_DatesDistinctAndDescending(t *testing.T) {
	records := []*dataset.Record{
		testutil.NewRecord("one", testutil.Added("2019-01-03")),
		testutil.NewRecord("two", testutil.Added("2021-11-30")),
		testutil.NewRecord("three", testutil.Added("2019-01-03")),
		testutil.NewRecord("undated"),
	}

	idx := dataset.BuildIndex(records)

	require.Equal(t, []string{"2021-11-30", "2019-01-03"}, idx.Dates)
	require.Equal(t, []string{"one", "three"}, names(idx.RecordsAddedOn("2019-01-03")))
	require.Empty(t, idx.RecordsAddedOn(""))
}

func TestBuildIndex_GroupsPreserveCollectionOrder(t *testing.T) {
	records := []*dataset.Record{
		testutil.NewRecord("z", testutil.Tags("climate")),
		testutil.NewRecord("y", testutil.Tags("ocean")),
		testutil.NewRecord("x", testutil.Tags("climate", "ocean", "climate")),
	}

	idx := dataset.BuildIndex(records)

	require.Equal(t, []string{"z", "x"}, names(idx.RecordsWithTag("climate")))
	require.Equal(t, []string{"y", "x"}, names(idx.RecordsWithTag("ocean")))
	require.Nil(t, idx.RecordsWithTag("missing"))
	require.Equal(t, map[string]int{"climate": 2, "ocean": 2}, idx.TagCounts())
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := dataset.BuildIndex(nil)

	require.Empty(t, idx.Tags)
	require.Empty(t, idx.Dates)
}

func TestBuildIndex_EveryTagGroupMatchesFilter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := rapid.SliceOf(recordGen()).Draw(t, "records")

		idx := dataset.BuildIndex(records)

		seen := map[string]bool{}
		for _, tag := range idx.Tags {
			require.False(t, seen[tag], "tag %q listed twice", tag)
			seen[tag] = true

			var want []*dataset.Record
			for _, r := range records {
				if r.HasTag(tag) {
					want = append(want, r)
				}
			}
			require.Equal(t, want, idx.RecordsWithTag(tag))
		}
	})
}
