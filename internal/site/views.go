package site

import (
	"cmp"
	"slices"

	"github.com/opendataregistry/regsite/internal/dataset"
)

// UsageView is a dataset as shown on usage-example pages. It is built from a
// record without modifying it.
type UsageView struct {
	Record        *dataset.Record
	ExamplesCount int
	Categories    dataset.DataAtWork
}

// NewUsageViews returns a view for every record with at least one usage
// example, in input order.
func NewUsageViews(records []*dataset.Record) []UsageView {
	var out []UsageView
	for _, r := range records {
		if n := r.DataAtWork.Count(); n > 0 {
			out = append(out, UsageView{Record: r, ExamplesCount: n, Categories: r.DataAtWork})
		}
	}
	return out
}

// ServiceGroup collects usage examples that use one AWS service.
type ServiceGroup struct {
	Service string
	Slug    string
	Views   []UsageView
}

// GroupByService groups usage examples by the services they list. Groups
// are sorted by slug; views within a group keep input order and hold only
// the entries naming that service.
func GroupByService(records []*dataset.Record) []ServiceGroup {
	bySlug := make(map[string]*ServiceGroup)

	for _, r := range records {
		perService := make(map[string]dataset.DataAtWork)
		var order []string

		for _, cat := range r.DataAtWork {
			for _, e := range cat.Entries {
				for _, svc := range e.Services {
					slug := ToType(svc)
					if slug == "" {
						continue
					}
					if _, ok := bySlug[slug]; !ok {
						bySlug[slug] = &ServiceGroup{Service: svc, Slug: slug}
					}
					if _, ok := perService[slug]; !ok {
						order = append(order, slug)
					}
					perService[slug] = appendEntry(perService[slug], cat.Name, e)
				}
			}
		}

		for _, slug := range order {
			cats := perService[slug]
			g := bySlug[slug]
			g.Views = append(g.Views, UsageView{Record: r, ExamplesCount: cats.Count(), Categories: cats})
		}
	}

	groups := make([]ServiceGroup, 0, len(bySlug))
	for _, g := range bySlug {
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b ServiceGroup) int { return cmp.Compare(a.Slug, b.Slug) })
	return groups
}

func appendEntry(d dataset.DataAtWork, category string, e dataset.Entry) dataset.DataAtWork {
	for i := range d {
		if d[i].Name == category {
			// Skip an entry that lists the same service twice.
			if n := len(d[i].Entries); n > 0 && d[i].Entries[n-1].Title == e.Title && d[i].Entries[n-1].URL == e.URL {
				return d
			}
			d[i].Entries = append(d[i].Entries, e)
			return d
		}
	}
	return append(d, dataset.Category{Name: category, Entries: []dataset.Entry{e}})
}

// DateGroup is one change-log section.
type DateGroup struct {
	Date     string
	Datasets []*dataset.Record
}

// DateGroups returns the change-log sections, newest first.
func DateGroups(idx *dataset.Index) []DateGroup {
	out := make([]DateGroup, len(idx.Dates))
	for i, d := range idx.Dates {
		out[i] = DateGroup{Date: d, Datasets: idx.RecordsAddedOn(d)}
	}
	return out
}

// RecordsFromSource returns the records listed by source, in input order.
func RecordsFromSource(records []*dataset.Record, source string) []*dataset.Record {
	var out []*dataset.Record
	for _, r := range records {
		if slices.Contains(r.Sources, source) {
			out = append(out, r)
		}
	}
	return out
}
