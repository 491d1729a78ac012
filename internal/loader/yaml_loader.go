// Package loader reads dataset descriptor documents from a data root.
//
// The data root holds one directory per source. Each source keeps its YAML
// documents under datasets/ and may carry a collab.yaml describing the
// collaboration it belongs to:
//
//	<root>/<source>/datasets/**/*.yaml
//	<root>/<source>/collab.yaml
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	stdpath "path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/log"
)

const (
	datasetsDir = "datasets"
	collabFile  = "collab.yaml"
)

// Snapshot is the result of one load: sources in directory listing order.
type Snapshot struct {
	Sources []Source
}

// Source is one top-level data directory.
type Source struct {
	Name      string
	Documents []Document
	Collab    *Collab // nil when the source has no collab.yaml
}

// Document is one decoded YAML file.
type Document struct {
	Path   string // slash-separated, relative to the data root
	Record *dataset.Record
}

// Collab describes a collaboration program a source contributes to.
type Collab struct {
	Name        string `yaml:"Name"`
	Description string `yaml:"Description,omitempty"`
	Logo        string `yaml:"Logo,omitempty"`
	Link        string `yaml:"Link,omitempty"`
}

// ParseError reports a document that is not valid YAML for a dataset record.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DocumentCount returns the number of documents across all sources.
func (s *Snapshot) DocumentCount() int {
	n := 0
	for _, src := range s.Sources {
		n += len(src.Documents)
	}
	return n
}

// Load reads every source under fsys. Any read or parse failure aborts the
// load; no partial snapshot is returned.
func Load(fsys fs.FS) (*Snapshot, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	snap := &Snapshot{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		src, err := loadSource(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		log.Debug(log.CatLoad, "loaded source", "source", src.Name, "documents", len(src.Documents), "collab", src.Collab != nil)
		snap.Sources = append(snap.Sources, src)
	}

	log.Info(log.CatLoad, "load complete", "sources", len(snap.Sources), "documents", snap.DocumentCount())
	return snap, nil
}

func loadSource(fsys fs.FS, name string) (Source, error) {
	src := Source{Name: name}

	collab, err := loadCollab(fsys, stdpath.Join(name, collabFile))
	if err != nil {
		return Source{}, err
	}
	src.Collab = collab

	root := stdpath.Join(name, datasetsDir)
	if _, err := fs.Stat(fsys, root); errors.Is(err, fs.ErrNotExist) {
		log.Warn(log.CatLoad, "source has no datasets directory", "source", name)
		return src, nil
	}

	// WalkDir visits entries in lexical order, so document order is stable.
	err = fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(d.Name()) {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var rec dataset.Record
		if err := yaml.Unmarshal(content, &rec); err != nil {
			return &ParseError{Path: path, Err: err}
		}

		src.Documents = append(src.Documents, Document{Path: path, Record: &rec})
		return nil
	})
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			return Source{}, err
		}
		return Source{}, fmt.Errorf("scan source %s: %w", name, err)
	}

	return src, nil
}

func loadCollab(fsys fs.FS, path string) (*Collab, error) {
	content, err := fs.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var c Collab
	if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &c, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(stdpath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// DirFS returns the data root at dir as an fs.FS.
func DirFS(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
