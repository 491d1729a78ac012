// Package verify compares a built site against a known-good copy.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/opendataregistry/regsite/internal/log"
)

// DefaultFiles are the outputs checked when no explicit list is given.
var DefaultFiles = []string{
	"datasets.yaml",
	"index.html",
	"index.ndjson",
	"index.yaml",
	"sitemap.txt",
	"landsat-8/index.html",
	"change-log/index.html",
}

// Status describes how a file differs.
type Status int

const (
	// StatusChanged means both sides have the file with different content.
	StatusChanged Status = iota
	// StatusMissing means the built output lacks a file the reference has.
	StatusMissing
	// StatusUnexpected means the reference lacks a file the build produced.
	StatusUnexpected
)

func (s Status) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusMissing:
		return "missing"
	case StatusUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// FileDiff is one mismatching file.
type FileDiff struct {
	Path   string
	Status Status
	// Diffs is the line-level diff from want to got. Empty unless Changed.
	Diffs []diffmatchpatch.Diff
}

// Added counts lines present only in the built output.
func (d FileDiff) Added() int {
	return countLines(d.Diffs, diffmatchpatch.DiffInsert)
}

// Removed counts lines present only in the reference.
func (d FileDiff) Removed() int {
	return countLines(d.Diffs, diffmatchpatch.DiffDelete)
}

// Compare checks each file in files byte-for-byte between got and want.
// Only mismatches are returned, in the order of files. A file absent from
// both sides is an error.
func Compare(got, want fs.FS, files []string) ([]FileDiff, error) {
	var out []FileDiff
	for _, name := range files {
		g, gErr := fs.ReadFile(got, name)
		w, wErr := fs.ReadFile(want, name)

		switch {
		case gErr != nil && !errors.Is(gErr, fs.ErrNotExist):
			return nil, fmt.Errorf("read built %s: %w", name, gErr)
		case wErr != nil && !errors.Is(wErr, fs.ErrNotExist):
			return nil, fmt.Errorf("read reference %s: %w", name, wErr)
		case gErr != nil && wErr != nil:
			return nil, fmt.Errorf("%s: not found in either tree", name)
		case gErr != nil:
			out = append(out, FileDiff{Path: name, Status: StatusMissing})
		case wErr != nil:
			out = append(out, FileDiff{Path: name, Status: StatusUnexpected})
		case !bytes.Equal(g, w):
			out = append(out, FileDiff{Path: name, Status: StatusChanged, Diffs: lineDiff(string(w), string(g))})
		default:
			continue
		}
		log.Debug(log.CatVerify, "file differs", "path", name, "status", out[len(out)-1].Status)
	}
	return out, nil
}

// lineDiff diffs whole lines so output reads like a unified diff.
func lineDiff(want, got string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func countLines(diffs []diffmatchpatch.Diff, op diffmatchpatch.Operation) int {
	n := 0
	for _, d := range diffs {
		if d.Type == op {
			n += len(splitLines(d.Text))
		}
	}
	return n
}

// Unified renders the diff with "+", "-" and " " line prefixes. Runs of
// unchanged lines longer than 2*context are collapsed to "@@".
func (d FileDiff) Unified(context int) string {
	var b strings.Builder
	for i, diff := range d.Diffs {
		lines := splitLines(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			writeLines(&b, "+", lines)
		case diffmatchpatch.DiffDelete:
			writeLines(&b, "-", lines)
		case diffmatchpatch.DiffEqual:
			head, tail := context, context
			if i == 0 {
				head = 0
			}
			if i == len(d.Diffs)-1 {
				tail = 0
			}
			if len(lines) <= head+tail {
				writeLines(&b, " ", lines)
				continue
			}
			writeLines(&b, " ", lines[:head])
			b.WriteString("@@\n")
			writeLines(&b, " ", lines[len(lines)-tail:])
		}
	}
	return b.String()
}

func writeLines(b *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		b.WriteString(prefix)
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
