// Package aggregate turns a loaded snapshot of source documents into the
// canonical dataset collection: merged by slug, filtered, validated,
// normalized and ordered. Collection memoizes the result for one build.
package aggregate

import (
	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/loader"
	"github.com/opendataregistry/regsite/internal/log"
)

// Merged is the slug-keyed result of merging every source document.
type Merged struct {
	// Slugs lists every slug in first-seen order.
	Slugs []string
	// Records maps a slug to its merged record.
	Records map[string]*dataset.Record
	// Duplicates counts documents folded into an existing slug.
	Duplicates int
}

// Merge combines documents sharing a slug. Sources are visited in snapshot
// order. The first document for a slug is authoritative; later documents
// contribute only their Metadata keys (later wins) and their source name.
//
// Records are taken from the snapshot, not copied, so a snapshot must not be
// merged twice.
func Merge(snap *loader.Snapshot) *Merged {
	m := &Merged{Records: make(map[string]*dataset.Record)}

	for _, src := range snap.Sources {
		for _, doc := range src.Documents {
			slug := dataset.Slug(doc.Path)

			existing, ok := m.Records[slug]
			if !ok {
				rec := doc.Record
				rec.Slug = slug
				rec.Sources = []string{src.Name}
				m.Records[slug] = rec
				m.Slugs = append(m.Slugs, slug)
				continue
			}

			overlayMetadata(existing, doc.Record.Metadata)
			existing.Sources = append(existing.Sources, src.Name)
			m.Duplicates++
			log.Debug(log.CatMerge, "merged duplicate slug", "slug", slug, "source", src.Name, "metadata_keys", len(doc.Record.Metadata))
		}
	}

	return m
}

func overlayMetadata(dst *dataset.Record, incoming map[string]any) {
	if len(incoming) == 0 {
		return
	}
	if dst.Metadata == nil {
		dst.Metadata = make(map[string]any, len(incoming))
	}
	for k, v := range incoming {
		dst.Metadata[k] = v
	}
}

// Ordered returns the merged records in first-seen slug order.
func (m *Merged) Ordered() []*dataset.Record {
	out := make([]*dataset.Record, 0, len(m.Slugs))
	for _, slug := range m.Slugs {
		out = append(out, m.Records[slug])
	}
	return out
}

// DropDeprecated removes deprecated records and returns how many were dropped.
func (m *Merged) DropDeprecated() int {
	kept := m.Slugs[:0]
	dropped := 0
	for _, slug := range m.Slugs {
		if m.Records[slug].Deprecated {
			delete(m.Records, slug)
			dropped++
			continue
		}
		kept = append(kept, slug)
	}
	m.Slugs = kept
	return dropped
}
