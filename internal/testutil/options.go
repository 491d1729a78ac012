package testutil

import "github.com/opendataregistry/regsite/internal/dataset"

// RecordOption configures a record during builder setup.
type RecordOption func(*dataset.Record)

// Description sets the record description.
func Description(desc string) RecordOption {
	return func(r *dataset.Record) { r.Description = desc }
}

// Tags appends tags to the record.
func Tags(tags ...string) RecordOption {
	return func(r *dataset.Record) { r.Tags = append(r.Tags, tags...) }
}

// Examples appends a usage-example category with one entry per title.
// Passing no titles adds an empty category.
func Examples(category string, titles ...string) RecordOption {
	return func(r *dataset.Record) {
		entries := make([]dataset.Entry, 0, len(titles))
		for _, title := range titles {
			entries = append(entries, dataset.Entry{Title: title, URL: "https://example.com/" + title})
		}
		r.DataAtWork = append(r.DataAtWork, dataset.Category{Name: category, Entries: entries})
	}
}

// Metadata sets a single metadata key.
func Metadata(key string, value any) RecordOption {
	return func(r *dataset.Record) {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any)
		}
		r.Metadata[key] = value
	}
}

// Added sets RegistryEntryAdded.
func Added(date string) RecordOption {
	return func(r *dataset.Record) { r.RegistryEntryAdded = date }
}

// ManagedBy sets the ManagedBy field.
func ManagedBy(managedBy string) RecordOption {
	return func(r *dataset.Record) { r.ManagedBy = managedBy }
}

// Resource appends a resource.
func Resource(typ, arn, region string) RecordOption {
	return func(r *dataset.Record) {
		r.Resources = append(r.Resources, dataset.Resource{
			Description: typ + " resource",
			Type:        typ,
			ARN:         arn,
			Region:      region,
		})
	}
}

// Deprecated marks the record deprecated.
func Deprecated() RecordOption {
	return func(r *dataset.Record) { r.Deprecated = true }
}

// Slug sets the slug directly, for tests that bypass the merge step.
func Slug(slug string) RecordOption {
	return func(r *dataset.Record) { r.Slug = slug }
}

// NewRecord creates a record with an empty (present) tag list.
func NewRecord(name string, opts ...RecordOption) *dataset.Record {
	r := &dataset.Record{Name: name, Tags: []string{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
