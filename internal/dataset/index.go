package dataset

import (
	"slices"
	"strings"
)

// Index holds the secondary views of an ordered collection.
// It is built once and read-only afterwards.
type Index struct {
	// Tags lists every tag in first-seen order over (record order × tag order).
	Tags []string
	// Dates lists distinct RegistryEntryAdded values, most recent first.
	// Descending string order equals chronological order only for ISO 8601 dates.
	Dates []string

	byTag  map[string][]*Record
	byDate map[string][]*Record
}

// BuildIndex scans records once, in order.
func BuildIndex(records []*Record) *Index {
	idx := &Index{
		Tags:   []string{},
		Dates:  []string{},
		byTag:  make(map[string][]*Record),
		byDate: make(map[string][]*Record),
	}

	for _, r := range records {
		for _, tag := range r.Tags {
			if _, seen := idx.byTag[tag]; !seen {
				idx.Tags = append(idx.Tags, tag)
			}
			// A record listing the same tag twice is grouped once.
			group := idx.byTag[tag]
			if n := len(group); n == 0 || group[n-1] != r {
				idx.byTag[tag] = append(group, r)
			}
		}

		if r.RegistryEntryAdded == "" {
			continue
		}
		if _, seen := idx.byDate[r.RegistryEntryAdded]; !seen {
			idx.Dates = append(idx.Dates, r.RegistryEntryAdded)
		}
		idx.byDate[r.RegistryEntryAdded] = append(idx.byDate[r.RegistryEntryAdded], r)
	}

	slices.SortFunc(idx.Dates, func(a, b string) int { return strings.Compare(b, a) })
	return idx
}

// RecordsWithTag returns the records carrying tag, in collection order.
func (idx *Index) RecordsWithTag(tag string) []*Record {
	return idx.byTag[tag]
}

// RecordsAddedOn returns the records whose RegistryEntryAdded equals date, in collection order.
func (idx *Index) RecordsAddedOn(date string) []*Record {
	return idx.byDate[date]
}

// TagCounts returns the number of records per tag.
func (idx *Index) TagCounts() map[string]int {
	out := make(map[string]int, len(idx.byTag))
	for tag, recs := range idx.byTag {
		out[tag] = len(recs)
	}
	return out
}
