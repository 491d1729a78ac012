package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/opendataregistry/regsite/internal/dataset"
)

// DatasetModel represents a row of the datasets table.
// Optional text columns are nullable; Document holds the full record as JSON.
type DatasetModel struct {
	Slug               string
	Position           int
	Name               string
	Description        *string // nullable
	ManagedBy          *string // nullable
	License            *string // nullable
	UpdateFrequency    *string // nullable
	RegistryEntryAdded *string // nullable
	ExamplesCount      int
	Document           string
	BuildID            string

	Tags    []string
	Sources []string
}

// ResourceModel represents a row of the dataset_resources table.
type ResourceModel struct {
	Position    int
	Type        *string
	ARN         *string
	Region      *string
	Description *string
}

// BuildModel represents a row of the builds table.
type BuildModel struct {
	ID           string
	CreatedAt    int64 // Unix timestamp
	DatasetCount int
}

// toDatasetModel converts a canonical record at position into a row.
func toDatasetModel(r *dataset.Record, position int, buildID string) (*DatasetModel, error) {
	doc, err := json.Marshal(r.Fields())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Slug, err)
	}
	return &DatasetModel{
		Slug:               r.Slug,
		Position:           position,
		Name:               r.Name,
		Description:        nullable(r.Description),
		ManagedBy:          nullable(r.ManagedBy),
		License:            nullable(r.License),
		UpdateFrequency:    nullable(r.UpdateFrequency),
		RegistryEntryAdded: nullable(r.RegistryEntryAdded),
		ExamplesCount:      r.DataAtWork.Count(),
		Document:           string(doc),
		BuildID:            buildID,
		Tags:               r.Tags,
		Sources:            r.Sources,
	}, nil
}

func toResourceModel(res dataset.Resource, position int) ResourceModel {
	return ResourceModel{
		Position:    position,
		Type:        nullable(res.Type),
		ARN:         nullable(res.ARN),
		Region:      nullable(res.Region),
		Description: nullable(res.Description),
	}
}

// Fields decodes Document back into the record's key/value form.
func (m *DatasetModel) Fields() (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(m.Document), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.Slug, err)
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
