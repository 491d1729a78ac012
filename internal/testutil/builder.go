// Package testutil provides fixtures for tests: record builders and source
// trees, in memory or written to a temp directory.
package testutil

import (
	"os"
	stdpath "path"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// SourceBuilder accumulates source files and produces an fs.FS laid out the
// way the loader expects: <source>/datasets/<slug>.yaml.
type SourceBuilder struct {
	t     *testing.T
	files fstest.MapFS
}

// NewSourceBuilder creates an empty source tree builder.
func NewSourceBuilder(t *testing.T) *SourceBuilder {
	t.Helper()
	return &SourceBuilder{t: t, files: fstest.MapFS{}}
}

// WithDataset adds a dataset file marshalled from a record built with opts.
func (b *SourceBuilder) WithDataset(source, slug, name string, opts ...RecordOption) *SourceBuilder {
	b.t.Helper()
	data, err := yaml.Marshal(NewRecord(name, opts...))
	require.NoError(b.t, err)
	return b.WithFile(stdpath.Join(source, "datasets", slug+".yaml"), string(data))
}

// WithRawDataset adds a dataset file with literal content.
func (b *SourceBuilder) WithRawDataset(source, slug, content string) *SourceBuilder {
	return b.WithFile(stdpath.Join(source, "datasets", slug+".yaml"), content)
}

// WithCollab adds a collab.yaml to source.
func (b *SourceBuilder) WithCollab(source, name, description string) *SourceBuilder {
	b.t.Helper()
	data, err := yaml.Marshal(map[string]string{
		"Name":        name,
		"Description": description,
		"Link":        "https://example.com/" + source,
	})
	require.NoError(b.t, err)
	return b.WithFile(stdpath.Join(source, "collab.yaml"), string(data))
}

// WithFile adds a file at path.
func (b *SourceBuilder) WithFile(path, content string) *SourceBuilder {
	b.files[path] = &fstest.MapFile{Data: []byte(content)}
	return b
}

// Build returns the accumulated tree.
func (b *SourceBuilder) Build() fstest.MapFS {
	return b.files
}

// BuildDir writes the accumulated tree under a fresh temp directory and
// returns its path.
func (b *SourceBuilder) BuildDir() string {
	b.t.Helper()
	dir := b.t.TempDir()
	for name, file := range b.files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(b.t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(b.t, os.WriteFile(path, file.Data, 0o600))
	}
	return dir
}
