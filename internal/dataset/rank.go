package dataset

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Mode selects how Order arranges records.
type Mode int

const (
	// ModeRanked orders by rank descending, then Name.
	ModeRanked Mode = iota
	// ModeAlphabetical orders by Name only.
	ModeAlphabetical
)

// String returns a human-readable representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeRanked:
		return "ranked"
	case ModeAlphabetical:
		return "alphabetical"
	default:
		return "unknown"
	}
}

// Rank is the transient sort key of a record: 3 for records tagged
// RankedTag, plus one per usage example across all categories.
func Rank(r *Record) int {
	rank := 0
	if r.HasTag(RankedTag) {
		rank = 3
	}
	return rank + r.DataAtWork.Count()
}

// Order sorts records in place into the display order for mode.
// Names are compared with English collation; the sort is stable so records
// with equal keys keep their input order. Rank is computed here and discarded.
func Order(records []*Record, mode Mode) {
	names := newCollator()

	if mode == ModeAlphabetical {
		slices.SortStableFunc(records, func(a, b *Record) int {
			return names.CompareString(a.Name, b.Name)
		})
		return
	}

	ranks := make(map[*Record]int, len(records))
	for _, r := range records {
		ranks[r] = Rank(r)
	}
	slices.SortStableFunc(records, func(a, b *Record) int {
		if c := cmp.Compare(ranks[b], ranks[a]); c != 0 {
			return c
		}
		return names.CompareString(a.Name, b.Name)
	})
}

// newCollator returns the English collator used for every name and tag
// comparison. Collators keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}
