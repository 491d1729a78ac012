package markdown

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/testutil"
)

// stripANSI removes ANSI escape codes from a string for easier testing.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestNew(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err, "unexpected error")
	require.NotNil(t, r, "expected non-nil renderer")
	require.Equal(t, 80, r.Width())
}

func TestNew_NamedStyles(t *testing.T) {
	for _, style := range []string{"dark", "light", "notty"} {
		_, err := New(60, style)
		require.NoError(t, err, style)
	}
}

func TestRenderer_Render_Heading(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err, "New error")

	result, err := r.Render("# Title\n\nContent")
	require.NoError(t, err, "Render error")

	require.Contains(t, result, "Title")
	require.Contains(t, result, "Content")
}

func TestDocument_Sections(t *testing.T) {
	rec := testutil.NewRecord("Landsat 8",
		testutil.Description("Imagery of the **Earth**."),
		testutil.ManagedBy("NASA"),
		testutil.Resource("S3 Bucket", "arn:aws:s3:::landsat-pds", "us-west-2"),
		testutil.Examples("Tutorials", "one"),
		testutil.Examples("Publications"),
	)

	doc := Document(rec)
	require.True(t, strings.HasPrefix(doc, "Imagery of the **Earth**.\n\n"))
	require.Contains(t, doc, "## Managed By\n\nNASA\n")
	require.Contains(t, doc, "| S3 Bucket | `arn:aws:s3:::landsat-pds` | us-west-2 |")
	require.Contains(t, doc, "## Tutorials\n\n- [one](https://example.com/one)\n")
	require.NotContains(t, doc, "Publications", "empty categories are skipped")
	require.NotContains(t, doc, "License")
	require.True(t, strings.HasSuffix(doc, ")\n"))
}

func TestDocument_AuthorAndBareTitle(t *testing.T) {
	rec := &dataset.Record{
		Name: "x",
		DataAtWork: dataset.DataAtWork{{Name: "Tools", Entries: []dataset.Entry{
			{Title: "CLI", AuthorName: "Jane"},
		}}},
	}
	require.Equal(t, "## Tools\n\n- CLI by Jane\n", Document(rec))
}

func TestDocument_EscapesTableCells(t *testing.T) {
	rec := testutil.NewRecord("x", testutil.Resource("a|b", "arn", "r"))
	require.Contains(t, Document(rec), `| a\|b |`)
}

func TestRenderer_RenderRecord(t *testing.T) {
	r, err := New(100, "notty")
	require.NoError(t, err)

	out, err := r.RenderRecord(testutil.NewRecord("Landsat 8",
		testutil.Description("Imagery from space."),
		testutil.Examples("Tutorials", "Processing Landsat")))
	require.NoError(t, err)

	plain := stripANSI(out)
	require.Contains(t, plain, "Imagery from space.")
	require.Contains(t, plain, "Tutorials")
	require.Contains(t, plain, "Processing Landsat")
}
