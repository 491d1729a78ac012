package dataset

import (
	"slices"
	"strings"
)

// Category names rewritten for display.
const (
	CategoryToolsAndApplications = "Tools & Applications"
	CategoryTools                = "Tools"
)

// Normalize cleans a record in place before it is ranked:
//   - empty categories are dropped, and DataAtWork itself when nothing is left
//   - "Tools & Applications" becomes "Tools" (entries are appended when both exist)
//   - entries of each category are sorted by Title, case-insensitively
//   - Tags are sorted ascending with the same collation Order uses for names
//
// Normalize is idempotent and all sorts are stable.
func Normalize(r *Record) {
	r.DataAtWork = normalizeDataAtWork(r.DataAtWork)
	if r.Tags != nil {
		tags := newCollator()
		slices.SortStableFunc(r.Tags, tags.CompareString)
	}
}

func normalizeDataAtWork(d DataAtWork) DataAtWork {
	if len(d) == 0 {
		return nil
	}

	out := make(DataAtWork, 0, len(d))
	toolsAt := -1
	for _, c := range d {
		if len(c.Entries) == 0 {
			continue
		}
		if c.Name == CategoryToolsAndApplications {
			c.Name = CategoryTools
		}
		if c.Name == CategoryTools {
			if toolsAt >= 0 {
				out[toolsAt].Entries = append(out[toolsAt].Entries, c.Entries...)
				continue
			}
			toolsAt = len(out)
		}
		out = append(out, Category{Name: c.Name, Entries: c.Entries})
	}

	if len(out) == 0 {
		return nil
	}

	for i := range out {
		slices.SortStableFunc(out[i].Entries, compareTitles)
	}
	return out
}

func compareTitles(a, b Entry) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}
