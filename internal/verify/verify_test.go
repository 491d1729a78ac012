package verify

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func tree(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestCompare_Identical(t *testing.T) {
	files := map[string]string{"index.yaml": "a\nb\n", "landsat-8/index.html": "<p>x</p>\n"}

	diffs, err := Compare(tree(files), tree(files), []string{"index.yaml", "landsat-8/index.html"})
	require.NoError(t, err)
	require.Empty(t, diffs)
}

func TestCompare_Statuses(t *testing.T) {
	got := tree(map[string]string{
		"changed.txt": "one\ntwo\nthree\n",
		"extra.txt":   "x\n",
	})
	want := tree(map[string]string{
		"changed.txt": "one\n2\nthree\n",
		"gone.txt":    "y\n",
	})

	diffs, err := Compare(got, want, []string{"changed.txt", "gone.txt", "extra.txt"})
	require.NoError(t, err)
	require.Len(t, diffs, 3)

	require.Equal(t, "changed.txt", diffs[0].Path)
	require.Equal(t, StatusChanged, diffs[0].Status)
	require.Equal(t, 1, diffs[0].Added())
	require.Equal(t, 1, diffs[0].Removed())

	require.Equal(t, FileDiff{Path: "gone.txt", Status: StatusMissing}, diffs[1])
	require.Equal(t, FileDiff{Path: "extra.txt", Status: StatusUnexpected}, diffs[2])
}

func TestCompare_AbsentFromBoth(t *testing.T) {
	_, err := Compare(tree(nil), tree(nil), []string{"nope.txt"})
	require.ErrorContains(t, err, "nope.txt: not found in either tree")
}

func TestCompare_WhitespaceMatters(t *testing.T) {
	diffs, err := Compare(
		tree(map[string]string{"sitemap.txt": "https://x/\n"}),
		tree(map[string]string{"sitemap.txt": "https://x/"}),
		[]string{"sitemap.txt"})
	require.NoError(t, err)
	require.Len(t, diffs, 1)
}

func TestFileDiff_Unified(t *testing.T) {
	want := "l1\nl2\nl3\nl4\nl5\nold\nl7\nl8\nl9\n"
	got := "l1\nl2\nl3\nl4\nl5\nnew\nl7\nl8\nl9\n"

	diffs, err := Compare(tree(map[string]string{"f": got}), tree(map[string]string{"f": want}), []string{"f"})
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	require.Equal(t, "@@\n l4\n l5\n-old\n+new\n l7\n l8\n@@\n", diffs[0].Unified(2))
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "changed", StatusChanged.String())
	require.Equal(t, "missing", StatusMissing.String())
	require.Equal(t, "unexpected", StatusUnexpected.String())
	require.Equal(t, "unknown", Status(42).String())
}
