package presentation

import (
	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/infrastructure/sqlite"
)

// DatasetDTO represents a dataset for presentation
type DatasetDTO struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	ManagedBy     string   `json:"managed_by,omitempty"`
	Added         string   `json:"added,omitempty"`
	Tags          []string `json:"tags"`
	Sources       []string `json:"sources"`
	ExamplesCount int      `json:"examples_count"`
}

// TagDTO represents one entry of the tag index
type TagDTO struct {
	Tag      string   `json:"tag"`
	Count    int      `json:"count"`
	Datasets []string `json:"datasets"`
}

// DateDTO represents one entry of the date index
type DateDTO struct {
	Date     string   `json:"date"`
	Datasets []string `json:"datasets"`
}

// FromRecord converts a canonical record to a DTO
func FromRecord(r *dataset.Record) DatasetDTO {
	return DatasetDTO{
		Slug:          r.Slug,
		Name:          r.Name,
		ManagedBy:     r.ManagedBy,
		Added:         r.RegistryEntryAdded,
		Tags:          nonNil(r.Tags),
		Sources:       nonNil(r.Sources),
		ExamplesCount: r.DataAtWork.Count(),
	}
}

// FromRecords converts records to DTOs, keeping order
func FromRecords(records []*dataset.Record) []DatasetDTO {
	dtos := make([]DatasetDTO, len(records))
	for i, r := range records {
		dtos[i] = FromRecord(r)
	}
	return dtos
}

// FromModels converts exported database rows to DTOs, keeping order
func FromModels(models []*sqlite.DatasetModel) []DatasetDTO {
	dtos := make([]DatasetDTO, len(models))
	for i, m := range models {
		dto := DatasetDTO{
			Slug:          m.Slug,
			Name:          m.Name,
			Tags:          nonNil(m.Tags),
			Sources:       nonNil(m.Sources),
			ExamplesCount: m.ExamplesCount,
		}
		if m.ManagedBy != nil {
			dto.ManagedBy = *m.ManagedBy
		}
		if m.RegistryEntryAdded != nil {
			dto.Added = *m.RegistryEntryAdded
		}
		dtos[i] = dto
	}
	return dtos
}

// FromTagIndex lists every tag in index order with the slugs carrying it
func FromTagIndex(idx *dataset.Index) []TagDTO {
	dtos := make([]TagDTO, len(idx.Tags))
	for i, tag := range idx.Tags {
		slugs := slugs(idx.RecordsWithTag(tag))
		dtos[i] = TagDTO{Tag: tag, Count: len(slugs), Datasets: slugs}
	}
	return dtos
}

// FromDateIndex lists every date, most recent first, with the slugs added on it
func FromDateIndex(idx *dataset.Index) []DateDTO {
	dtos := make([]DateDTO, len(idx.Dates))
	for i, date := range idx.Dates {
		dtos[i] = DateDTO{Date: date, Datasets: slugs(idx.RecordsAddedOn(date))}
	}
	return dtos
}

func slugs(records []*dataset.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Slug
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
