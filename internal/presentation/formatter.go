package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatDatasets formats a list of datasets as JSON
func (f *Formatter) FormatDatasets(datasets []DatasetDTO) error {
	return f.encode(datasets)
}

// FormatTags formats the tag index as JSON
func (f *Formatter) FormatTags(tags []TagDTO) error {
	return f.encode(tags)
}

// FormatDates formats the date index as JSON
func (f *Formatter) FormatDates(dates []DateDTO) error {
	return f.encode(dates)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
